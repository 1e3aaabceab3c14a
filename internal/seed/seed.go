// Package seed inserts randomly generated customers through the customer
// service so that every business rule applies to seeded rows.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"customer-api/internal/domain/customer"
)

const (
	minAge = 10
	maxAge = 99
)

var (
	firstNames = []string{
		"Alice", "Bob", "Carol", "Dan", "Erin", "Frank", "Grace", "Heidi",
		"Ivan", "Judy", "Mallory", "Niaj", "Olivia", "Peggy", "Rupert",
		"Sybil", "Trent", "Uma", "Victor", "Walter",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
		"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	}
)

// RandomRegistration builds "First Last" / first.last@gmail.com with an age
// in [minAge, maxAge).
func RandomRegistration(rnd *rand.Rand) customer.Registration {
	first := firstNames[rnd.IntN(len(firstNames))]
	last := lastNames[rnd.IntN(len(lastNames))]

	return customer.Registration{
		Name:  first + " " + last,
		Email: strings.ToLower(first + "." + last + "@gmail.com"),
		Age:   minAge + rnd.IntN(maxAge-minAge),
	}
}

type Seeder struct {
	service customer.CustomerService
	rnd     *rand.Rand
	logger  *slog.Logger
}

func NewSeeder(service customer.CustomerService, rnd *rand.Rand, logger *slog.Logger) *Seeder {
	if service == nil {
		panic("customer service cannot be nil")
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		service: service,
		rnd:     rnd,
		logger:  logger.With("component", "Seeder"),
	}
}

// Seed attempts count registrations. Collisions with existing emails are
// skipped; any other error aborts the run.
func (s *Seeder) Seed(ctx context.Context, count int) (created int, err error) {
	for i := 0; i < count; i++ {
		reg := RandomRegistration(s.rnd)

		c, err := s.service.RegisterCustomer(ctx, reg)
		if err != nil {
			if errors.Is(err, customer.ErrDuplicateEmail) {
				s.logger.InfoContext(ctx, "Skipping seeded customer with taken email", slog.String("email", reg.Email))
				continue
			}
			return created, fmt.Errorf("failed to seed customer %d of %d: %w", i+1, count, err)
		}

		created++
		s.logger.InfoContext(ctx, "Seeded customer", slog.Int64("customerID", c.ID), slog.String("email", c.Email))
	}
	return created, nil
}
