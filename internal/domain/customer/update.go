package customer

import "customer-api/internal/pkg/optional"

type Registration struct {
	Name  string
	Email string
	Age   int
}

// Update carries a partial change set. Unset fields keep their stored value.
type Update struct {
	Name  optional.Value[string]
	Email optional.Value[string]
	Age   optional.Value[int]
}

// Apply merges u into c and reports which columns actually changed.
// Email values are normalized before comparison.
func (u Update) Apply(c *Customer) Changes {
	var ch Changes

	if name, ok := u.Name.Get(); ok && name != c.Name {
		c.Name = name
		ch.Name = true
	}
	if age, ok := u.Age.Get(); ok && age != c.Age {
		c.Age = age
		ch.Age = true
	}
	if email, ok := u.Email.Get(); ok {
		if normalized := NormalizeEmail(email); normalized != c.Email {
			c.Email = normalized
			ch.Email = true
		}
	}

	return ch
}

type Changes struct {
	Name  bool
	Email bool
	Age   bool
}

func (c Changes) Any() bool {
	return c.Name || c.Email || c.Age
}
