package model

import (
	"fmt"
	"strings"
)

// NodeKind is the closed set of node kinds in a course tree.
type NodeKind string

const (
	KindCourse           NodeKind = "course"
	KindModule           NodeKind = "module"
	KindLesson           NodeKind = "lesson"
	KindPage             NodeKind = "page"
	KindQuiz             NodeKind = "quiz"
	KindQuizQuestion     NodeKind = "quizQuestion"
	KindQuizOption       NodeKind = "quizOption"
	KindCodingExercise   NodeKind = "codingExercise"
	KindCodingPlayground NodeKind = "codingPlayground"
)

// Kinds lists every NodeKind in tree order (roots first, leaves last).
var Kinds = []NodeKind{
	KindCourse,
	KindModule,
	KindLesson,
	KindPage,
	KindQuiz,
	KindQuizQuestion,
	KindQuizOption,
	KindCodingExercise,
	KindCodingPlayground,
}

// allowedChildren is the only place nesting legality is defined.
// Kinds missing from the table are leaves.
var allowedChildren = map[NodeKind][]NodeKind{
	KindCourse:       {KindModule, KindQuiz, KindCodingPlayground},
	KindModule:       {KindLesson, KindQuiz, KindCodingExercise, KindCodingPlayground},
	KindLesson:       {KindPage, KindQuiz, KindCodingExercise, KindCodingPlayground},
	KindQuiz:         {KindQuizQuestion},
	KindQuizQuestion: {KindQuizOption},
}

// IsAllowedChild reports whether a node of kind child may be nested directly under parent.
func IsAllowedChild(parent, child NodeKind) bool {
	for _, k := range allowedChildren[parent] {
		if k == child {
			return true
		}
	}
	return false
}

// AllowedChildren returns the kinds accepted under kind, in display order.
func AllowedChildren(kind NodeKind) []NodeKind {
	return append([]NodeKind(nil), allowedChildren[kind]...)
}

func IsLeaf(kind NodeKind) bool {
	return len(allowedChildren[kind]) == 0
}

// HasStatus reports whether kind carries a draft/published/archived status.
func HasStatus(kind NodeKind) bool {
	switch kind {
	case KindCourse, KindModule, KindLesson, KindQuiz:
		return true
	default:
		return false
	}
}

func (k NodeKind) Valid() bool {
	for _, x := range Kinds {
		if x == k {
			return true
		}
	}
	return false
}

// Label is the human-facing name of the kind ("Quiz Question").
func (k NodeKind) Label() string {
	switch k {
	case KindCourse:
		return "Course"
	case KindModule:
		return "Module"
	case KindLesson:
		return "Lesson"
	case KindPage:
		return "Page"
	case KindQuiz:
		return "Quiz"
	case KindQuizQuestion:
		return "Question"
	case KindQuizOption:
		return "Option"
	case KindCodingExercise:
		return "Coding Exercise"
	case KindCodingPlayground:
		return "Coding Playground"
	default:
		return string(k)
	}
}

// IDPrefix is the readable prefix used for generated ids (mod-1a2b3c4d).
func (k NodeKind) IDPrefix() string {
	switch k {
	case KindCourse:
		return "crs"
	case KindModule:
		return "mod"
	case KindLesson:
		return "les"
	case KindPage:
		return "page"
	case KindQuiz:
		return "quiz"
	case KindQuizQuestion:
		return "qst"
	case KindQuizOption:
		return "opt"
	case KindCodingExercise:
		return "ex"
	case KindCodingPlayground:
		return "play"
	default:
		return "node"
	}
}

// ParseNodeKind accepts canonical kind names case-insensitively, ignoring '-', '_' and spaces
// (so "quiz-question" and "QUIZ_QUESTION" both parse).
func ParseNodeKind(s string) (NodeKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "question":
		return KindQuizQuestion, nil
	case "option":
		return KindQuizOption, nil
	case "exercise":
		return KindCodingExercise, nil
	case "playground":
		return KindCodingPlayground, nil
	}
	for _, k := range Kinds {
		if strings.ToLower(string(k)) == norm {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown node kind: %q", s)
}
