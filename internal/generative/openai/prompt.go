package openai

import (
	"fmt"
	"strings"

	"github.com/davidbz/lodestar/internal/domain"
)

const (
	maxPromptCandidates = 3
	maxCandidateRunes   = 200
)

var systemPrompts = map[string]string{
	domain.LanguageEnglish: `You are a knowledge assistant specialized in accurate, helpful information about %[1]s.
You know its history, culture, geography, politics, economy and current events.

Your role is to:
1. Provide accurate, well-researched answers about %[1]s
2. Stay respectful and sensitive to complex situations
3. Acknowledge when you don't have specific information
4. Give balanced perspectives on controversial topics
5. Support your answers with reliable sources when possible`,

	domain.LanguageArabic: `أنت مساعد معرفي متخصص في تقديم معلومات دقيقة ومفيدة حول %[1]s.
لديك معرفة واسعة بالتاريخ والثقافة والجغرافيا والسياسة والاقتصاد والأحداث الجارية.

دورك هو:
1. تقديم إجابات دقيقة ومدروسة حول %[1]s
2. كن محترماً وحساساً للأوضاع المعقدة
3. اعترف عندما لا تملك معلومات محددة
4. قدم وجهات نظر متوازنة حول المواضيع الخلافية
5. ادعم إجاباتك بمصادر موثوقة عند الإمكان`,
}

var formatInstructions = map[string]string{
	domain.LanguageEnglish: `Provide your answer in the following JSON format:
{
    "answer": "Your detailed answer here",
    "confidence": 0.95,
    "sources": ["source1", "source2"],
    "language": "en",
    "question_variants": ["alternative phrasing 1", "alternative phrasing 2"],
    "keywords": ["keyword1", "keyword2", "keyword3"]
}

The confidence score (0.0 to 1.0) must reflect how certain you are about the answer.
Provide ONLY the JSON response, no additional text.`,

	domain.LanguageArabic: `يرجى تقديم إجابتك بتنسيق JSON التالي:
{
    "answer": "إجابتك المفصلة هنا",
    "confidence": 0.95,
    "sources": ["مصدر1", "مصدر2"],
    "language": "ar",
    "question_variants": ["صياغة بديلة 1", "صياغة بديلة 2"],
    "keywords": ["كلمة مفتاحية1", "كلمة مفتاحية2"]
}

تأكد أن درجة الثقة (0.0 إلى 1.0) تعكس مدى يقينك من الإجابة.
قدم استجابة JSON فقط، بدون نص إضافي.`,
}

// promptLanguage picks the prompt language, falling back to the detected script.
func promptLanguage(req *domain.GenerationRequest) string {
	if _, ok := systemPrompts[req.Language]; ok {
		return req.Language
	}
	return req.Question.Language()
}

// buildSystemPrompt renders the persona and the response format for language.
func buildSystemPrompt(topic, language string) string {
	return fmt.Sprintf(systemPrompts[language], topic) + "\n\n" + formatInstructions[language]
}

// buildUserPrompt renders the question, optional caller context and similar answered questions.
func buildUserPrompt(req *domain.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", req.Question.Text)

	if req.Context != "" {
		fmt.Fprintf(&b, "\nRelevant context from knowledge base:\n%s\n", req.Context)
	}

	candidates := req.Candidates
	if len(candidates) > maxPromptCandidates {
		candidates = candidates[:maxPromptCandidates]
	}
	if len(candidates) > 0 {
		b.WriteString("\nSimilar previously answered questions:\n")
		for i, c := range candidates {
			fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, c.Question, truncate(c.Answer, maxCandidateRunes))
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
