// Package seed fills an empty store with demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/app/queries"
	"github.com/gilanghuda/corejob-backend/pkg/database"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const DemoPassword = "corejob123"

// Result reports what a run created.
type Result struct {
	Categories int
	Users      int
	Dependents bool
}

// Run is idempotent: categories are matched by name and users by email.
// Profiles, services and the rest are only created together with a new
// provider account.
func Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	now := time.Now().UTC()

	categories := []models.Category{
		{Name: "Plomeria", Description: "Instalacion y reparacion de tuberias", Icon: "wrench"},
		{Name: "Electricidad", Description: "Instalaciones electricas residenciales", Icon: "bolt"},
		{Name: "Carpinteria", Description: "Muebles y trabajos en madera", Icon: "hammer"},
		{Name: "Limpieza", Description: "Limpieza de hogares y oficinas", Icon: "broom"},
	}

	categoryQueries := queries.NewDocumentQueries[models.Category](database.CategoriesCollection)
	for i := range categories {
		existing, err := categoryQueries.FindOneBy(ctx, database.Filter{"name": categories[i].Name})
		if err == nil {
			categories[i] = *existing
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		if err := insert(ctx, categoryQueries, &categories[i], now); err != nil {
			return nil, err
		}
		res.Categories++
	}

	provider, created, err := ensureUser(ctx, models.User{
		Email:              "proveedor@corejob.test",
		FullName:           "Carlos Proveedor",
		Phone:              "+502 5555 0001",
		IsVerified:         true,
		LocationCountry:    "Guatemala",
		LocationDepartment: "Guatemala",
		PhonePublic:        true,
	}, now)
	if err != nil {
		return nil, err
	}
	if created {
		res.Users++
	}

	client, clientCreated, err := ensureUser(ctx, models.User{
		Email:              "cliente@corejob.test",
		FullName:           "Ana Cliente",
		Phone:              "+502 5555 0002",
		LocationCountry:    "Guatemala",
		LocationDepartment: "Sacatepequez",
	}, now)
	if err != nil {
		return nil, err
	}
	if clientCreated {
		res.Users++
	}

	if !created {
		log.Printf("event=seed_skip reason=provider_exists email=%s", provider.Email)
		return res, nil
	}

	if err := seedDependents(ctx, provider, client, categories, now); err != nil {
		return nil, err
	}
	res.Dependents = true
	return res, nil
}

func seedDependents(ctx context.Context, provider, client *models.User, categories []models.Category, now time.Time) error {
	lat, lng := 14.6349, -90.5069
	profile := &models.Profile{
		UserID:             provider.ID,
		Bio:                "Plomero y electricista con 10 anos de experiencia.",
		ServiceAddress:     "Zona 1, Ciudad de Guatemala",
		ServiceLat:         &lat,
		ServiceLng:         &lng,
		ServiceRadiusValue: 15,
		ServiceRadiusUnit:  models.RadiusUnitKilometers,
		RatingAverage:      4.5,
		JobsCompleted:      12,
		Categories:         []primitive.ObjectID{categories[0].ID, categories[1].ID},
	}
	if err := insert(ctx, queries.NewDocumentQueries[models.Profile](database.ProfilesCollection), profile, now); err != nil {
		return err
	}

	item := &models.PortfolioItem{
		ProfileID:   profile.ID,
		Title:       "Remodelacion de bano",
		Description: "Cambio completo de tuberia y accesorios.",
		ImageURL:    "https://example.com/portfolio/bano.jpg",
	}
	if err := insert(ctx, queries.NewDocumentQueries[models.PortfolioItem](database.PortfolioItemsCollection), item, now); err != nil {
		return err
	}

	serviceQueries := queries.NewDocumentQueries[models.Service](database.ServicesCollection)
	services := []models.Service{
		{
			UserID:            provider.ID,
			CategoryIDs:       []primitive.ObjectID{categories[0].ID},
			Title:             "Reparacion de fugas",
			Description:       "Deteccion y reparacion de fugas de agua.",
			PriceType:         models.PriceTypeHour,
			Price:             150,
			Photos:            []string{},
			MaterialsIncluded: true,
			IsActive:          true,
		},
		{
			UserID:            provider.ID,
			CategoryIDs:       []primitive.ObjectID{categories[1].ID},
			Title:             "Instalacion electrica",
			Description:       "Instalacion de tomacorrientes y lamparas.",
			PriceType:         models.PriceTypeService,
			Price:             300,
			Photos:            []string{},
			DiscountAplied:    true,
			DiscountRecurring: 10,
			IsActive:          true,
		},
	}
	for i := range services {
		if err := insert(ctx, serviceQueries, &services[i], now); err != nil {
			return err
		}
	}

	scheduled := now.Add(72 * time.Hour)
	booking := &models.Booking{
		ClientID:      client.ID,
		ProviderID:    provider.ID,
		ServiceID:     services[0].ID,
		Status:        models.BookingStatusPending,
		RequestDate:   now,
		ScheduledDate: &scheduled,
		TotalPrice:    services[0].Price,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := insert(ctx, queries.NewDocumentQueries[models.Booking](database.BookingsCollection), booking, now); err != nil {
		return err
	}

	review := &models.Review{
		UserID:    client.ID,
		ServiceID: services[0].ID,
		Rating:    5,
		Comment:   "Muy puntual y profesional.",
	}
	if err := insert(ctx, queries.NewDocumentQueries[models.Review](database.ReviewsCollection), review, now); err != nil {
		return err
	}

	bookingID := booking.ID
	notification := &models.Notification{
		UserID:    provider.ID,
		BookingID: &bookingID,
		Message:   "You have a new booking request",
	}
	return insert(ctx, queries.NewDocumentQueries[models.Notification](database.NotificationsCollection), notification, now)
}

// ensureUser returns the user with u.Email, creating it with DemoPassword
// when missing.
func ensureUser(ctx context.Context, u models.User, now time.Time) (*models.User, bool, error) {
	userQueries := queries.NewUserQueries()
	existing, err := userQueries.GetUserByEmail(ctx, u.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash seed password: %w", err)
	}
	u.Email = queries.NormalizeEmail(u.Email)
	u.Password = string(hashed)
	if err := insert(ctx, userQueries.DocumentQueries, &u, now); err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func insert[T any](ctx context.Context, q *queries.DocumentQueries[T], doc models.Document, now time.Time) error {
	doc.SetID(primitive.NewObjectID())
	doc.Touch(now)
	if err := q.Insert(ctx, doc); err != nil {
		return fmt.Errorf("seed %s: %w", q.Name, err)
	}
	return nil
}
