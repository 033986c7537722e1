package domain

// Approaches describes one block of sets: how many sets, repetitions per set
// and working weight in kilograms.
type Approaches struct {
	Amount      uint    `json:"amount"`
	Repetitions uint    `json:"repetitions"`
	Weight      float64 `json:"weight"`
}

// Exercise is a catalog entry shared by all users. Key is the stable machine
// identifier; Name is the display label users see on buttons and inside day
// lists. Catalog order is insertion order and is append-only.
type Exercise struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MediaRef    string `json:"mediaRef,omitempty"`
}

// UserExercise is one user's personalized take on a catalog exercise:
// a warm-up block, a main block and a free-form note.
type UserExercise struct {
	Name   string     `json:"name"`
	WarmUp Approaches `json:"warmUp"`
	Main   Approaches `json:"main"`
	Note   string     `json:"note"`
}

// NewUserExercise returns a zero-valued instance for the catalog exercise.
func NewUserExercise(name string) *UserExercise {
	return &UserExercise{Name: name}
}

// Block selects the warm-up or main approaches block.
func (e *UserExercise) Block(warmUp bool) *Approaches {
	if warmUp {
		return &e.WarmUp
	}
	return &e.Main
}
