package postgres

import "time"

// Question is a question asked by an identified user.
type Question struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:128;index;not null"`
	Text      string    `gorm:"type:text;not null"`
	Language  string    `gorm:"size:8"`
	CreatedAt time.Time `gorm:"not null"`
	Answers   []Answer  `gorm:"foreignKey:QuestionID"`
}

// TableName returns the table name for GORM.
func (Question) TableName() string {
	return "questions"
}

// Answer is the answer given to a Question.
type Answer struct {
	ID         string    `gorm:"primaryKey;size:36"`
	QuestionID string    `gorm:"size:36;index;not null"`
	Text       string    `gorm:"type:text;not null"`
	Source     string    `gorm:"size:32;not null"`
	Confidence float64   `gorm:"not null"`
	Model      string    `gorm:"size:128"`
	Keywords   []string  `gorm:"serializer:json"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (Answer) TableName() string {
	return "answers"
}
