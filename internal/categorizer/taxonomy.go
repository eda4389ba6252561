package categorizer

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
)

// CategoryRule is one category with the keywords that vote for it.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategorySet is the ordered taxonomy of one direction. Fallback is the
// catch-all member returned when no keyword matches; it is listed last.
type CategorySet struct {
	Categories []CategoryRule `yaml:"categories"`
	Fallback   string         `yaml:"fallback"`
}

// Names returns every member of the set in order, fallback last.
func (s CategorySet) Names() []string {
	names := make([]string, 0, len(s.Categories)+1)
	for _, c := range s.Categories {
		names = append(names, c.Name)
	}
	return append(names, s.Fallback)
}

// Taxonomy holds the expense and income category sets.
type Taxonomy struct {
	Expense CategorySet `yaml:"expense"`
	Income  CategorySet `yaml:"income"`
}

// For returns the set for a direction. The bool is false for an unknown
// direction.
func (t Taxonomy) For(d models.Direction) (CategorySet, bool) {
	switch d {
	case models.DirectionExpense:
		return t.Expense, true
	case models.DirectionIncome:
		return t.Income, true
	default:
		return CategorySet{}, false
	}
}

// Validate checks that both sets are usable and disjoint.
func (t Taxonomy) Validate() error {
	seen := map[string]models.Direction{}
	for _, d := range []models.Direction{models.DirectionExpense, models.DirectionIncome} {
		set, _ := t.For(d)
		if strings.TrimSpace(set.Fallback) == "" {
			return configError(d, "fallback", errors.New("fallback category is required"))
		}
		for _, name := range set.Names() {
			if strings.TrimSpace(name) == "" {
				return configError(d, "categories", errors.New("category name is empty"))
			}
			if prev, dup := seen[name]; dup {
				return configError(d, "categories", fmt.Errorf("category %q already defined for %s", name, prev))
			}
			seen[name] = d
		}
		for _, c := range set.Categories {
			if len(c.Keywords) == 0 {
				return configError(d, "keywords for "+c.Name, errors.New("no keywords"))
			}
		}
	}
	return nil
}

func configError(d models.Direction, setting string, err error) error {
	return &parsererror.ConfigError{
		Component: "categorizer",
		Setting:   d.String() + " " + setting,
		Err:       err,
	}
}

// DefaultTaxonomy returns the built-in Russian taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Expense: CategorySet{
			Categories: []CategoryRule{
				{Name: "Продукты питания", Keywords: []string{
					"продукты", "еда", "ресторан", "кафе", "столовая", "пятёрочка", "магнит",
					"перекрёсток", "ашан", "лента", "дикси", "макдональдс", "бургер", "пицца",
					"хлеб", "молоко", "мясо", "овощи", "фрукты", "кофе", "обед", "ужин", "завтрак",
					"супермаркет", "продмаг", "grocery", "food", "restaurant", "cafe",
				}},
				{Name: "Транспорт", Keywords: []string{
					"такси", "автобус", "метро", "транспорт", "бензин", "топливо", "заправка",
					"проезд", "билет", "яндекс", "убер", "uber", "taxi", "gas", "fuel", "metro",
					"bus", "поезд", "электричка", "троллейбус", "трамвай", "парковка", "parking",
				}},
				{Name: "Развлечения", Keywords: []string{
					"кино", "театр", "концерт", "бар", "клуб", "развлечения", "игры", "боулинг",
					"кинотеатр", "cinema", "movie", "entertainment", "party", "concert", "music",
					"игра", "steam", "playstation", "xbox", "nintendo", "книги", "книга", "book",
				}},
				{Name: "Одежда", Keywords: []string{
					"одежда", "обувь", "куртка", "платье", "рубашка", "джинсы", "костюм", "шорты",
					"футболка", "свитер", "пальто", "сапоги", "кроссовки", "туфли", "clothes",
					"clothing", "shoes", "shirt", "dress", "jacket", "pants", "zara", "h&m",
				}},
				{Name: "Здоровье/медицина", Keywords: []string{
					"аптека", "лекарства", "врач", "больница", "поликлиника", "стоматолог", "анализы",
					"медицина", "health", "medicine", "doctor", "hospital", "pharmacy", "таблетки",
					"витамины", "лечение", "treatment", "медосмотр", "прививка", "vaccination",
				}},
				{Name: "Коммунальные услуги", Keywords: []string{
					"коммунальные", "жкх", "электричество", "газ", "вода", "интернет", "телефон",
					"мобильная связь", "квартплата", "аренда", "utilities", "electricity", "water",
					"gas", "internet", "phone", "rent", "heating", "отопление", "канализация",
				}},
			},
			Fallback: "Прочие расходы",
		},
		Income: CategorySet{
			Categories: []CategoryRule{
				{Name: "Зарплата", Keywords: []string{
					"зарплата", "оклад", "аванс", "премия", "salary", "wage", "payment", "pay",
					"зп", "получил", "перевод", "transfer", "работа", "work", "job",
				}},
				{Name: "Подработка", Keywords: []string{
					"подработка", "freelance", "фриланс", "заказ", "работа", "услуги", "service",
					"side job", "sidework", "дополнительная работа", "халтура", "проект", "project",
				}},
			},
			Fallback: "Прочие доходы",
		},
	}
}
