// Package texts centralizes every user-facing Russian string: button labels,
// prompts and reply templates. Handlers and the menu builder reference these
// constants so wording changes stay in one place.
package texts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/gymbot/internal/domain"
)

// Button labels. The [Р] prefix marks warm-up fields, [О] the main block.
const (
	BtnProfiles    = "Профили"
	BtnExercises   = "Упражнения"
	BtnNewProfile  = "Создать новый профиль"
	BtnBack        = "Назад"
	BtnToMenu      = "🔚В меню"
	BtnAddDay      = "Добавить день"
	BtnDeleteDay   = "Удалить день"
	BtnAddExercise = "Добавить упражнение"
	BtnEnter       = "Войти"
	BtnRename      = "Переименовать"
	BtnDelete      = "Удалить"
	BtnNote        = "Заметка"

	BtnWarmSets   = "[Р] Подходы"
	BtnMainSets   = "[О] Подходы"
	BtnWarmReps   = "[Р] Повторения"
	BtnMainReps   = "[О] Повторения"
	BtnWarmWeight = "[Р] Вес"
	BtnMainWeight = "[О] Вес"
)

// Replies and prompts.
const (
	MainMenu      = "Главное меню"
	ChooseProfile = "Выберите профиль или создайте новый"
	ChooseDay     = "Выберите день или добавьте новый"
	ChooseAction  = "Выберите действие"
	CatalogIntro  = "Выберите упражнение, чтобы посмотреть технику выполнения"
	ChooseToAdd   = "Выберите упражнение, чтобы добавить его в день"

	PromptProfileName = "Введите название нового профиля"
	PromptRenameName  = "Введите новое название профиля"
	PromptNote        = "Введите заметку к упражнению"

	NameTaken = "Профиль с таким названием уже есть, введите другое"
	NameEmpty = "Название не может быть пустым, попробуйте ещё раз"
	BadNumber = "Нужно неотрицательное число, попробуйте ещё раз"

	ProfileDeleted = "Профиль удалён"
	DayDeleted     = "День удалён"
	AlreadyInDay   = "Это упражнение уже есть в выбранном дне"
	Saved          = "Сохранено"

	Unknown     = "Не понимаю. Воспользуйтесь кнопками на клавиатуре"
	Maintenance = "Бот на техническом обслуживании, загляните позже"
	Apology     = "Что-то пошло не так. Разработчик уже получил отчёт"
)

// Greeting welcomes a user by name with a gendered verb form.
func Greeting(firstName string, g domain.Gender) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "спортсмен"
	}
	switch g {
	case domain.GenderFemale:
		return fmt.Sprintf("Привет, %s! Рада помочь с тренировками. %s", name, MainMenu)
	default:
		return fmt.Sprintf("Привет, %s! Рад помочь с тренировками. %s", name, MainMenu)
	}
}

// DayLabel renders the button caption of a training day, 1-based.
func DayLabel(n int) string {
	return fmt.Sprintf("День %d", n)
}

// ProfileScreen titles the action screen of one profile.
func ProfileScreen(name string) string {
	return fmt.Sprintf("Профиль «%s». %s", name, ChooseAction)
}

func ProfileCreated(name string) string {
	return fmt.Sprintf("Профиль «%s» создан", name)
}

func ProfileRenamed(name string) string {
	return fmt.Sprintf("Профиль переименован в «%s»", name)
}

func DayAdded(n int) string {
	return fmt.Sprintf("День %d добавлен", n)
}

func DayScreen(n int) string {
	return fmt.Sprintf("День %d. Выберите упражнение", n)
}

func ExerciseAdded(name string) string {
	return fmt.Sprintf("«%s» добавлено в день", name)
}

func ExerciseRemoved(name string) string {
	return fmt.Sprintf("«%s» убрано из дня", name)
}

// PromptAmount asks for the set count of the chosen block.
func PromptAmount(warmUp bool) string {
	return "Введите количество " + blockWord(warmUp) + " подходов"
}

// PromptRepetitions asks for repetitions per set of the chosen block.
func PromptRepetitions(warmUp bool) string {
	return "Введите количество повторений в " + blockWord(warmUp) + " подходах"
}

// PromptWeight asks for the working weight of the chosen block.
func PromptWeight(warmUp bool) string {
	return "Введите вес (кг) в " + blockWord(warmUp) + " подходах"
}

func blockWord(warmUp bool) string {
	if warmUp {
		return "разминочных"
	}
	return "основных"
}

// ExerciseCard renders the user's current numbers for one exercise.
func ExerciseCard(ex *domain.UserExercise) string {
	var b strings.Builder
	fmt.Fprintf(&b, "«%s»\n", ex.Name)
	fmt.Fprintf(&b, "Разминочные: %s\n", approaches(ex.WarmUp))
	fmt.Fprintf(&b, "Основные: %s", approaches(ex.Main))
	if ex.Note != "" {
		fmt.Fprintf(&b, "\nЗаметка: %s", ex.Note)
	}
	return b.String()
}

func approaches(a domain.Approaches) string {
	if a.Amount == 0 && a.Repetitions == 0 && a.Weight == 0 {
		return "не заданы"
	}
	s := fmt.Sprintf("%d×%d", a.Amount, a.Repetitions)
	if a.Weight > 0 {
		s += ", " + FormatWeight(a.Weight) + " кг"
	}
	return s
}

// FormatWeight prints a weight without trailing zeros: 50, 12.5, 7.25.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// CatalogCard renders a catalog entry for browsing.
func CatalogCard(ex *domain.Exercise) string {
	if ex.Description == "" {
		return ex.Name
	}
	return ex.Name + "\n\n" + ex.Description
}

// VersionAnnouncement renders the release announcement message. The caller
// escapes the changelog when sending with a markdown parse mode.
func VersionAnnouncement(version, changelog string) string {
	msg := fmt.Sprintf("*Обновление %s*", version)
	if changelog != "" {
		msg += "\n\n" + changelog
	}
	return msg
}

// Stats renders the admin /stats summary.
func Stats(users, profiles, days int) string {
	return fmt.Sprintf("Пользователей: %d\nПрофилей: %d\nДней: %d", users, profiles, days)
}

// ExecutionTime renders the handler timing suffix shown to admins.
func ExecutionTime(ms int64) string {
	return fmt.Sprintf("⏱ %d мс", ms)
}
