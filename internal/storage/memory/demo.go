package memory

import (
	"time"

	"github.com/mmynk/splitsmart/internal/models"
)

// Demo account IDs.
const (
	DemoUserAlex  = "user_01"
	DemoUserBen   = "user_02"
	DemoUserCasey = "user_03"
	DemoUserDana  = "user_04"

	DemoGroupTrip      = "group_01"
	DemoGroupApartment = "group_02"
)

// NewDemo returns a store seeded with four users, two groups and a handful
// of expenses dated relative to now. Every demo user gets passwordHash.
func NewDemo(now time.Time, passwordHash string) *Store {
	s := New()
	created := now.Unix()
	day := 24 * time.Hour

	for _, u := range []models.User{
		{ID: DemoUserAlex, Name: "Alex Doe", Email: "alex.doe@example.com"},
		{ID: DemoUserBen, Name: "Ben Smith", Email: "ben.smith@example.com"},
		{ID: DemoUserCasey, Name: "Casey Jones", Email: "casey.jones@example.com"},
		{ID: DemoUserDana, Name: "Dana Scully", Email: "dana.scully@example.com"},
	} {
		u.AvatarURL = "https://i.pravatar.cc/150?u=" + u.ID
		u.PasswordHash = passwordHash
		u.CreatedAt, u.UpdatedAt = created, created
		s.users[u.ID] = &u
	}

	s.groups[DemoGroupTrip] = &models.Group{
		ID:             DemoGroupTrip,
		Name:           "Hawaii Trip",
		MasterCurrency: "USD",
		Members:        []string{DemoUserAlex, DemoUserBen, DemoUserCasey, DemoUserDana},
		ImageURL:       "https://picsum.photos/seed/hawaii/400/200",
		CreatedAt:      created,
	}
	s.groups[DemoGroupApartment] = &models.Group{
		ID:             DemoGroupApartment,
		Name:           "Apartment Bills",
		MasterCurrency: "CAD",
		Members:        []string{DemoUserAlex, DemoUserCasey},
		ImageURL:       "https://picsum.photos/seed/apartment/400/200",
		CreatedAt:      created,
	}

	two, one := 2, 1
	usdToCAD := 1.37
	for _, e := range []*models.Expense{
		{
			ID:               "exp_01",
			GroupID:          DemoGroupTrip,
			Description:      "Flight Tickets",
			Amount:           1200,
			OriginalAmount:   1200,
			OriginalCurrency: "USD",
			PaidBy:           DemoUserAlex,
			Participants: []models.SplitDetail{
				{UserID: DemoUserAlex, Amount: 300},
				{UserID: DemoUserBen, Amount: 300},
				{UserID: DemoUserCasey, Amount: 300},
				{UserID: DemoUserDana, Amount: 300},
			},
			SplitType: models.SplitEqual,
			Date:      now.Add(-2 * day),
			Tags:      []string{"travel", "flights"},
		},
		{
			ID:               "exp_02",
			GroupID:          DemoGroupTrip,
			Description:      "Dinner at Roy's",
			Amount:           250,
			OriginalAmount:   250,
			OriginalCurrency: "USD",
			PaidBy:           DemoUserBen,
			Participants: []models.SplitDetail{
				{UserID: DemoUserAlex, Amount: 100},
				{UserID: DemoUserBen, Amount: 50},
				{UserID: DemoUserCasey, Amount: 100},
			},
			SplitType:   models.SplitExact,
			Date:        now.Add(-1 * day),
			Tags:        []string{"food", "dining"},
			Attachments: []string{"https://picsum.photos/seed/receipt1/400/300"},
		},
		{
			ID:               "exp_03",
			GroupID:          DemoGroupTrip,
			Description:      "Snacks and Drinks",
			Amount:           75,
			OriginalAmount:   75,
			OriginalCurrency: "USD",
			PaidBy:           DemoUserAlex,
			Participants: []models.SplitDetail{
				{UserID: DemoUserAlex, Amount: 50, Parts: &two},
				{UserID: DemoUserCasey, Amount: 25, Parts: &one},
			},
			SplitType: models.SplitParts,
			Date:      now,
			Tags:      []string{"groceries", "snacks"},
		},
		{
			ID:               "exp_04",
			GroupID:          DemoGroupApartment,
			Description:      "Monthly Rent",
			Amount:           2055,
			OriginalAmount:   1500,
			OriginalCurrency: "USD",
			ConversionRate:   &usdToCAD,
			PaidBy:           DemoUserCasey,
			Participants: []models.SplitDetail{
				{UserID: DemoUserAlex, Amount: 1027.5},
				{UserID: DemoUserCasey, Amount: 1027.5},
			},
			SplitType: models.SplitEqual,
			Date:      now.Add(-5 * day),
			Tags:      []string{"rent", "housing"},
		},
		{
			ID:               "exp_05",
			GroupID:          DemoGroupApartment,
			Description:      "Internet Bill",
			Amount:           82.2,
			OriginalAmount:   60,
			OriginalCurrency: "USD",
			ConversionRate:   &usdToCAD,
			PaidBy:           DemoUserAlex,
			Participants: []models.SplitDetail{
				{UserID: DemoUserAlex, Amount: 41.1},
				{UserID: DemoUserCasey, Amount: 41.1},
			},
			SplitType: models.SplitEqual,
			Date:      now.Add(-3 * day),
			Tags:      []string{"utilities", "internet"},
		},
	} {
		e.TransactionType = models.TransactionExpense
		e.Attachments = append([]string{}, e.Attachments...)
		e.CreatedAt, e.UpdatedAt = created, created
		s.expenses[e.ID] = copyExpense(e)
	}

	return s
}
