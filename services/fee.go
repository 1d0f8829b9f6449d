package services

import "github.com/Dosada05/tournament-registration/models"

// Currency of every fee, in whole units.
const Currency = "GBP"

// FeeFor возвращает взнос за категорию. Для неизвестной категории (выбор не завершён) взнос 0.
func FeeFor(category models.Category) int {
	switch category {
	case models.CategorySingles, models.CategoryDoubles:
		return 5
	case models.CategoryBoth:
		return 10
	default:
		return 0
	}
}

// FeeSchedule lists the fee of every selectable category.
func FeeSchedule() map[models.Category]int {
	return map[models.Category]int{
		models.CategorySingles: FeeFor(models.CategorySingles),
		models.CategoryDoubles: FeeFor(models.CategoryDoubles),
		models.CategoryBoth:    FeeFor(models.CategoryBoth),
	}
}
