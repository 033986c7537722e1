package bot

import "github.com/m3rciful/gymbot/core/buildinfo"

// changelog is the human-readable summary posted by /version for the
// currently built release.
const changelog = "— Профили тренировок: создание, переименование, удаление\n" +
	"— Дни и упражнения с разминочными и основными подходами\n" +
	"— Каталог упражнений с техникой выполнения\n" +
	"— Автосохранение и резервные копии данных"

func currentVersion() (version, notes string) {
	return buildinfo.Version, changelog
}
