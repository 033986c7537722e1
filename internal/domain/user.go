package domain

import "strings"

// Gender mirrors the numeric gender enum of the persisted documents:
// 0 unknown, 1 female, 2 male.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderFemale
	GenderMale
)

// Screen identifies a state of the per-user navigation machine. The value is
// persisted as-is in the user document.
type Screen string

const (
	ScreenMain                    Screen = "main"
	ScreenProfiles                Screen = "profiles"
	ScreenProfileActions          Screen = "profile_actions"
	ScreenDays                    Screen = "days"
	ScreenExercises               Screen = "exercises"
	ScreenExerciseActions         Screen = "exercise_actions"
	ScreenExerciseActionsExtended Screen = "exercise_actions_extended"
	// ScreenCatalog browses the exercise catalog from the main menu;
	// ScreenCatalogAdd picks a catalog exercise to append to the current day.
	ScreenCatalog    Screen = "catalog"
	ScreenCatalogAdd Screen = "catalog_add"
)

// Known reports whether the screen tag belongs to the fixed screen set.
func (s Screen) Known() bool {
	switch s {
	case ScreenMain, ScreenProfiles, ScreenProfileActions, ScreenDays,
		ScreenExercises, ScreenExerciseActions, ScreenExerciseActionsExtended,
		ScreenCatalog, ScreenCatalogAdd:
		return true
	}
	return false
}

// Day is an ordered list of exercise names within a profile.
// Every name references an entry in User.Exercises.
type Day []string

// Index returns the position of name in the day, or -1.
func (d Day) Index(name string) int {
	for i, n := range d {
		if n == name {
			return i
		}
	}
	return -1
}

// Contains reports whether the day already lists the exercise.
func (d Day) Contains(name string) bool {
	return d.Index(name) >= 0
}

// Profile is a named container of training days belonging to one user.
type Profile struct {
	Name string `json:"name"`
	Days []Day  `json:"days"`
}

// Cursor tracks a user's current position in the profile/day/exercise hierarchy.
// Editing references the exercise being edited by its catalog display name
// rather than an index, so catalog or day reordering cannot redirect edits.
type Cursor struct {
	Profile  int    `json:"profile"`
	Day      int    `json:"day"`
	Exercise int    `json:"exercise"`
	Editing  string `json:"editing"`
}

// User is the root of one account's data: navigation cursor, profiles and
// personalized exercise instances. Users are created on the first inbound
// update and never deleted.
type User struct {
	ID         int64                    `json:"id"`
	FirstName  string                   `json:"firstName"`
	LastName   string                   `json:"lastName"`
	Gender     Gender                   `json:"gender"`
	Profiles   []Profile                `json:"profiles"`
	Exercises  map[string]*UserExercise `json:"exercises"`
	Cursor     Cursor                   `json:"cursor"`
	LastPrompt string                   `json:"lastPrompt"`
	LastScreen Screen                   `json:"lastScreen"`
}

// NewUser returns a fresh account positioned at the main screen.
func NewUser(id int64, firstName, lastName string) *User {
	return &User{
		ID:         id,
		FirstName:  firstName,
		LastName:   lastName,
		Exercises:  make(map[string]*UserExercise),
		LastScreen: ScreenMain,
	}
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasProfile reports whether a profile with the exact name exists.
func (u *User) HasProfile(name string) bool {
	for _, p := range u.Profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ProfileIndex returns the position of the named profile, or -1.
func (u *User) ProfileIndex(name string) int {
	for i, p := range u.Profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// CurrentProfile returns the profile under the cursor, or nil when the user
// has no profiles or the cursor is out of range.
func (u *User) CurrentProfile() *Profile {
	if u.Cursor.Profile < 0 || u.Cursor.Profile >= len(u.Profiles) {
		return nil
	}
	return &u.Profiles[u.Cursor.Profile]
}

// CurrentDay returns the day under the cursor, or nil.
func (u *User) CurrentDay() Day {
	p := u.CurrentProfile()
	if p == nil || u.Cursor.Day < 0 || u.Cursor.Day >= len(p.Days) {
		return nil
	}
	return p.Days[u.Cursor.Day]
}

// Exercise returns the user's instance for a catalog exercise, creating a
// zero-valued one on first reference.
func (u *User) Exercise(name string) *UserExercise {
	if u.Exercises == nil {
		u.Exercises = make(map[string]*UserExercise)
	}
	if ex, ok := u.Exercises[name]; ok {
		return ex
	}
	ex := NewUserExercise(name)
	u.Exercises[name] = ex
	return ex
}

// AddProfile appends a profile with zero days. It refuses duplicate names.
func (u *User) AddProfile(name string) bool {
	if u.HasProfile(name) {
		return false
	}
	u.Profiles = append(u.Profiles, Profile{Name: name})
	return true
}

// RenameCurrentProfile renames the profile under the cursor.
// Renaming to an already taken name is refused.
func (u *User) RenameCurrentProfile(name string) bool {
	p := u.CurrentProfile()
	if p == nil {
		return false
	}
	if p.Name != name && u.HasProfile(name) {
		return false
	}
	p.Name = name
	return true
}

// DeleteCurrentProfile removes the profile under the cursor and resets the
// position cursors to zero. Reset, not clamp: after a structural deletion the
// neighbouring element is not the one the user meant.
func (u *User) DeleteCurrentProfile() bool {
	i := u.Cursor.Profile
	if i < 0 || i >= len(u.Profiles) {
		return false
	}
	u.Profiles = append(u.Profiles[:i], u.Profiles[i+1:]...)
	u.Cursor.Profile = 0
	u.Cursor.Day = 0
	u.Cursor.Exercise = 0
	return true
}

// AddDay appends an empty day to the current profile and returns its ordinal.
func (u *User) AddDay() int {
	p := u.CurrentProfile()
	if p == nil {
		return 0
	}
	p.Days = append(p.Days, Day{})
	return len(p.Days)
}

// DeleteCurrentDay removes exactly the day under the cursor and resets the
// day/exercise cursors to zero.
func (u *User) DeleteCurrentDay() bool {
	p := u.CurrentProfile()
	if p == nil || u.Cursor.Day < 0 || u.Cursor.Day >= len(p.Days) {
		return false
	}
	p.Days = append(p.Days[:u.Cursor.Day], p.Days[u.Cursor.Day+1:]...)
	u.Cursor.Day = 0
	u.Cursor.Exercise = 0
	return true
}

// AddExerciseToCurrentDay appends the exercise name to the day under the
// cursor and lazily creates the user's instance. A name already present in
// the day is a no-op reported as false; the duplicate guard lives here with
// the caller deciding what to reply.
func (u *User) AddExerciseToCurrentDay(name string) bool {
	p := u.CurrentProfile()
	if p == nil || u.Cursor.Day < 0 || u.Cursor.Day >= len(p.Days) {
		return false
	}
	if p.Days[u.Cursor.Day].Contains(name) {
		return false
	}
	p.Days[u.Cursor.Day] = append(p.Days[u.Cursor.Day], name)
	u.Exercise(name)
	return true
}

// RemoveExerciseFromCurrentDay deletes the exercise under the cursor from the
// current day. The user's personalized instance survives the removal.
func (u *User) RemoveExerciseFromCurrentDay() bool {
	p := u.CurrentProfile()
	if p == nil || u.Cursor.Day < 0 || u.Cursor.Day >= len(p.Days) {
		return false
	}
	day := p.Days[u.Cursor.Day]
	if u.Cursor.Exercise < 0 || u.Cursor.Exercise >= len(day) {
		return false
	}
	p.Days[u.Cursor.Day] = append(day[:u.Cursor.Exercise], day[u.Cursor.Exercise+1:]...)
	u.Cursor.Exercise = 0
	return true
}

// ClampCursor resets out-of-range cursor fields to zero. Loaded documents may
// predate a structural change.
func (u *User) ClampCursor() {
	if u.Cursor.Profile < 0 || u.Cursor.Profile >= len(u.Profiles) {
		u.Cursor.Profile = 0
	}
	p := u.CurrentProfile()
	if p == nil || u.Cursor.Day < 0 || u.Cursor.Day >= len(p.Days) {
		u.Cursor.Day = 0
	}
	if d := u.CurrentDay(); d == nil || u.Cursor.Exercise < 0 || u.Cursor.Exercise >= len(d) {
		u.Cursor.Exercise = 0
	}
}
