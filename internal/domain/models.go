package domain

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Difficulty grades a question.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the known difficulty levels in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// Category is a topic tag from a closed set.
type Category string

const (
	Basics    Category = "basics"
	Technical Category = "technical"
	DeFi      Category = "defi"
	NFT       Category = "nft"
	Trading   Category = "trading"
	Security  Category = "security"
	Mining    Category = "mining"
	Altcoins  Category = "altcoins"
)

// Categories lists every known category.
var Categories = []Category{Basics, Technical, DeFi, NFT, Trading, Security, Mining, Altcoins}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID         int        `json:"id" yaml:"id"`
	Prompt     string     `json:"prompt" yaml:"prompt"`
	Options    []string   `json:"options" yaml:"options"`
	Correct    int        `json:"correctOptionIndex" yaml:"correct"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	Category   Category   `json:"category" yaml:"category"`
}

// Bank is the static catalog of questions a session samples from.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Result is derived from a completed session.
type Result struct {
	CorrectCount int  `json:"correctCount"`
	Total        int  `json:"total"`
	ScorePercent int  `json:"scorePercent"`
	Passed       bool `json:"passed"`
}

// Feedback describes the outcome of one submitted answer.
type Feedback struct {
	QuestionID    int  `json:"questionId"`
	Selected      int  `json:"selected"`
	CorrectOption int  `json:"correctOption"`
	Correct       bool `json:"correct"`
}

// ReviewItem is one line of the post-quiz review.
type ReviewItem struct {
	QuestionID    int      `json:"questionId"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	Selected      int      `json:"selected"`
	CorrectOption int      `json:"correctOption"`
	Correct       bool     `json:"correct"`
}
