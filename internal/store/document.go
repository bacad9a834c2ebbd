package store

// SchemaVersion is the version of the aggregate document layout written by ToStorage.
const SchemaVersion = 1

// NodeFields are the attributes every stored node shares.
type NodeFields struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Order         int      `json:"order"`
	Status        string   `json:"status,omitempty"`
	Description   string   `json:"description,omitempty"`
	Content       string   `json:"content,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	EstimatedTime int      `json:"estimatedTime,omitempty"`
	Points        int      `json:"points,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// CourseDocument is the stored form of one whole course: the unit of load and save.
// Children of different kinds live in separate lists; their Order fields record how
// they interleave.
type CourseDocument struct {
	SchemaVersion int `json:"schemaVersion"`
	NodeFields
	Modules     []ModuleDocument     `json:"modules,omitempty"`
	Quizzes     []QuizDocument       `json:"quizzes,omitempty"`
	Playgrounds []PlaygroundDocument `json:"playgrounds,omitempty"`
}

type ModuleDocument struct {
	NodeFields
	Lessons     []LessonDocument     `json:"lessons,omitempty"`
	Quizzes     []QuizDocument       `json:"quizzes,omitempty"`
	Exercises   []ExerciseDocument   `json:"exercises,omitempty"`
	Playgrounds []PlaygroundDocument `json:"playgrounds,omitempty"`
}

type LessonDocument struct {
	NodeFields
	Pages       []PageDocument       `json:"pages,omitempty"`
	Quizzes     []QuizDocument       `json:"quizzes,omitempty"`
	Exercises   []ExerciseDocument   `json:"exercises,omitempty"`
	Playgrounds []PlaygroundDocument `json:"playgrounds,omitempty"`
}

type QuizDocument struct {
	NodeFields
	PassingScore *int               `json:"passingScore,omitempty"`
	MaxAttempts  *int               `json:"maxAttempts,omitempty"`
	Questions    []QuestionDocument `json:"questions,omitempty"`
}

type QuestionDocument struct {
	NodeFields
	Options []OptionDocument `json:"options,omitempty"`
}

type OptionDocument struct {
	NodeFields
	IsCorrect bool `json:"isCorrect,omitempty"`
}

type PageDocument struct {
	NodeFields
}

type ExerciseDocument struct {
	NodeFields
}

type PlaygroundDocument struct {
	NodeFields
}
