package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// SeedPlan sizes the demo data set.
type SeedPlan struct {
	DemoEmail     string
	DemoName      string
	DemoActive    int
	DemoCompleted int
	ExtraUsers    int
	TodosPerExtra int
	Seed          uint64
}

// DefaultSeedPlan gives one demo account with 40 todos plus five other
// accounts with ten each.
func DefaultSeedPlan() SeedPlan {
	return SeedPlan{
		DemoEmail:     "demo@example.com",
		DemoName:      "Demo User",
		DemoActive:    25,
		DemoCompleted: 15,
		ExtraUsers:    5,
		TodosPerExtra: 10,
		Seed:          1,
	}
}

// SeedReport counts what Seed wrote.
type SeedReport struct {
	Users int
	Todos int
}

// Seeder fills an empty store with demo accounts and todos.
type Seeder struct {
	users  repository.UserRepository
	todos  repository.TodoRepository
	logger *zap.Logger
}

func NewSeeder(users repository.UserRepository, todos repository.TodoRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{users: users, todos: todos, logger: logger}
}

// Seed writes plan. An existing demo account is reused, so running it twice
// adds todos but no duplicate users.
func (s *Seeder) Seed(ctx context.Context, plan SeedPlan) (SeedReport, error) {
	var report SeedReport
	rng := rand.New(rand.NewPCG(plan.Seed, plan.Seed^0x9e3779b97f4a7c15))

	demo, created, err := s.ensureUser(ctx, plan.DemoEmail, plan.DemoName)
	if err != nil {
		return report, err
	}
	if created {
		report.Users++
	}

	n, err := s.createTodos(ctx, rng, demo, plan.DemoActive, false)
	report.Todos += n
	if err != nil {
		return report, err
	}
	n, err = s.createTodos(ctx, rng, demo, plan.DemoCompleted, true)
	report.Todos += n
	if err != nil {
		return report, err
	}

	for i := 1; i <= plan.ExtraUsers; i++ {
		user, created, err := s.ensureUser(ctx, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("User %d", i))
		if err != nil {
			return report, err
		}
		if created {
			report.Users++
		}
		for j := 0; j < plan.TodosPerExtra; j++ {
			n, err := s.createTodos(ctx, rng, user, 1, rng.IntN(10) < 3)
			report.Todos += n
			if err != nil {
				return report, err
			}
		}
	}

	s.logger.Info("seed complete", zap.Int("users", report.Users), zap.Int("todos", report.Todos))
	return report, nil
}

func (s *Seeder) ensureUser(ctx context.Context, email, name string) (*domain.User, bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	user = &domain.User{Email: email, Name: name}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *Seeder) createTodos(ctx context.Context, rng *rand.Rand, owner *domain.User, count int, completed bool) (int, error) {
	for i := 0; i < count; i++ {
		todo := &domain.Todo{
			UserID:      owner.ID,
			Title:       sentence(rng, 3+rng.IntN(6)),
			IsCompleted: completed,
		}
		if rng.IntN(10) < 7 {
			description := sentence(rng, 8+rng.IntN(20))
			todo.Description = &description
		}
		if _, err := s.todos.Create(ctx, todo); err != nil {
			return i, err
		}
	}
	return count, nil
}

var words = strings.Fields(`buy milk call plan review write send fix clean book pay
check order pick update read draft water the plants garage report invoice team
meeting dentist groceries laundry taxes email budget ticket trip gift notes`)

func sentence(rng *rand.Rand, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rng.IntN(len(words))]
	}
	out := strings.Join(parts, " ")
	return strings.ToUpper(out[:1]) + out[1:] + "."
}
