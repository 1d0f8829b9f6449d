package models

import "time"

// Category задаёт категорию, в которой участник заявлен на турнир.
type Category string

const (
	CategorySingles Category = "singles"
	CategoryDoubles Category = "doubles"
	CategoryBoth    Category = "both"
)

// IsValid сообщает, является ли значение одной из известных категорий.
func (c Category) IsValid() bool {
	switch c {
	case CategorySingles, CategoryDoubles, CategoryBoth:
		return true
	}
	return false
}

// Includes reports whether an entrant of category c plays in the bracket category.
func (c Category) Includes(bracket Category) bool {
	return c == bracket || c == CategoryBoth
}

// BracketCategories are the categories fixtures are generated for, in generation order.
var BracketCategories = []Category{CategorySingles, CategoryDoubles}

// Entrant представляет оплатившего участника турнира.
// Запись создаётся только после успешного платежа и далее не изменяется.
type Entrant struct {
	ID               int       `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	Category         Category  `json:"category" db:"category"`
	Fee              int       `json:"fee" db:"fee"`
	PaymentReference string    `json:"payment_reference" db:"payment_reference"`
	RegisteredAt     time.Time `json:"registered_at" db:"registered_at"`
}
