package domain

// LastPosted remembers which release changelog was announced and the message
// it was posted with, so restarts do not repeat the announcement.
type LastPosted struct {
	Version   string `json:"version"`
	MessageID int    `json:"messageId"`
}

// BotPrefs is the shared settings document: the exercise catalog, the admin
// list and operational toggles. It is persisted next to the users document.
type BotPrefs struct {
	LastPosted        LastPosted `json:"lastPosted"`
	APIVersion        string     `json:"apiVersion"`
	Catalog           []Exercise `json:"exercises"`
	Admins            []int64    `json:"admins"`
	SendExecutionTime bool       `json:"sendExecutionTime"`
}

// ExerciseByKey looks up a catalog entry by its stable identifier.
func (p *BotPrefs) ExerciseByKey(key string) *Exercise {
	for i := range p.Catalog {
		if p.Catalog[i].Key == key {
			return &p.Catalog[i]
		}
	}
	return nil
}

// ExerciseByName looks up a catalog entry by its display name.
func (p *BotPrefs) ExerciseByName(name string) *Exercise {
	for i := range p.Catalog {
		if p.Catalog[i].Name == name {
			return &p.Catalog[i]
		}
	}
	return nil
}

// ExerciseNames returns the catalog display names in catalog order.
func (p *BotPrefs) ExerciseNames() []string {
	names := make([]string, len(p.Catalog))
	for i := range p.Catalog {
		names[i] = p.Catalog[i].Name
	}
	return names
}

// IsAdmin reports whether the user id is listed in the admin set.
func (p *BotPrefs) IsAdmin(id int64) bool {
	for _, a := range p.Admins {
		if a == id {
			return true
		}
	}
	return false
}

// MergeDefaultCatalog appends shipped catalog entries whose key is missing
// from the document. It returns the number of entries added, so a prefs file
// persisted by an older release picks up new exercises without losing edits.
func (p *BotPrefs) MergeDefaultCatalog() int {
	added := 0
	for _, ex := range defaultCatalog() {
		if p.ExerciseByKey(ex.Key) == nil {
			p.Catalog = append(p.Catalog, ex)
			added++
		}
	}
	return added
}

// DefaultPrefs returns the settings document used when no prefs file exists
// yet. The catalog ships pre-seeded; admins add entries by editing the file.
func DefaultPrefs() *BotPrefs {
	return &BotPrefs{Catalog: defaultCatalog()}
}

func defaultCatalog() []Exercise {
	return []Exercise{
		{
			Key:         "benchPressDumbbellsLying",
			Name:        "Жим гантелей лёжа",
			Description: "Базовое упражнение для наращивания объёма груди, домашняя альтернатива жиму штанги.\nЛёжа на скамье выжимайте гантели перед собой, не закрывая локтевой замок, и медленно опускайте обратно.",
			MediaRef:    "doc674959062",
		},
		{
			Key:         "benchPressDumbbellsSitting",
			Name:        "Жим гантелей сидя",
			Description: "Базовый жим на плечи: развивает объём и силу дельтоидов без лишней нагрузки на позвоночник.\nСидя с прямой спиной выжимайте гантели над головой, держа предплечья перпендикулярно полу.",
			MediaRef:    "doc674959186",
		},
		{
			Key:         "benchPressLying",
			Name:        "Жим лёжа",
			Description: "Развивает верхнюю часть тела: силу рук и плеч, рельеф груди.\nЛёжа на скамье опустите штангу к груди, разводя локти до параллели с полом, затем выжмите вверх.",
			MediaRef:    "doc674959216",
		},
		{
			Key:         "bendingHandsWithRod",
			Name:        "Сгибание рук со штангой",
			Description: "Увеличивает бицепсы в объёме и укрепляет плечевой пояс.\nВозьмите штангу обратным хватом и сгибайте руки с полной амплитудой, оставляя локти немного согнутыми в нижней точке.",
			MediaRef:    "doc674959243",
		},
		{
			Key:         "breedingDumbbellsLying",
			Name:        "Разведение гантелей лёжа",
			Description: "Изолирует большие грудные мышцы.\nРазводите гантели до ощутимого натяжения в груди, в среднем темпе и со слегка согнутыми руками.",
			MediaRef:    "doc674959267",
		},
		{
			Key:         "fightingHandsTilt",
			Name:        "Разгибание рук в наклоне",
			Description: "Нагружает трицепсы и локтевые мышцы, подходит и новичкам, и профессионалам.\nВ наклоне, прижав руки к корпусу, разгибайте их до прямой линии.",
			MediaRef:    "doc674959301",
		},
		{
			Key:         "frenchBenchPressLying",
			Name:        "Французский жим лёжа",
			Description: "Набор массы верхней части рук, укрепляет и стабилизирует суставы.\nЛёжа на скамье опускайте гриф за голову, сгибая локти не более чем на 90 градусов.",
			MediaRef:    "doc674959332",
		},
		{
			Key:         "pushups",
			Name:        "Отжимания",
			Description: "Базовое упражнение с собственным весом: развивает грудь и трицепсы при минимальной травмоопасности.\nИз упора лёжа опускайтесь, пока грудь не окажется в паре сантиметров от пола, локти направляйте назад.",
			MediaRef:    "doc674959352",
		},
		{
			Key:         "squatsWithRod",
			Name:        "Приседания со штангой",
			Description: "Укрепляют кор, низ тела и суставно-связочный аппарат, формируют рельеф ног и ягодиц.\nС грифом на трапециях приседайте до параллели с полом, отводя таз назад и держа спину прямой.",
			MediaRef:    "doc674959369",
		},
		{
			Key:         "stanTraction",
			Name:        "Становая тяга",
			Description: "Многосуставное упражнение: укрепляет спину, ноги, ягодицы и стабилизаторы позвоночника.\nС прямой спиной поднимайте штангу с пола до уровня бёдер, не выпрямляя колени полностью.",
			MediaRef:    "doc674959390",
		},
		{
			Key:         "tractionToBelt",
			Name:        "Тяга к поясу",
			Description: "Развивает все крупные мышечные группы спины, укрепляет руки, плечи и грудь.\nВ наклоне притягивайте штангу к поясу, ведя локти строго назад под прямым углом.",
			MediaRef:    "doc674959400",
		},
	}
}
