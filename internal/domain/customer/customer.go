package customer

import "strings"

type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// NewCustomer builds an unsaved customer; the ID is assigned by storage.
func NewCustomer(name, email string, age int) *Customer {
	return &Customer{
		Name:  name,
		Email: NormalizeEmail(email),
		Age:   age,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *Customer) IsPersisted() bool {
	return c.ID != 0
}
