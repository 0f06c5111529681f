package controllers

import (
	"github.com/gilanghuda/corejob-backend/app/models"
	"github.com/gilanghuda/corejob-backend/pkg/database"
)

var Users = &Resource[models.User, *models.User]{
	Entity:           "User",
	Plural:           "users",
	Collection:       database.UsersCollection,
	DuplicateMessage: "Email already exists",
	BeforeSave:       beforeSaveUser,
	Present:          presentUser,
}

var Profiles = &Resource[models.Profile, *models.Profile]{
	Entity:     "Profile",
	Plural:     "profiles",
	Collection: database.ProfilesCollection,
}

var Categories = &Resource[models.Category, *models.Category]{
	Entity:     "Category",
	Plural:     "categories",
	Collection: database.CategoriesCollection,
}

var Services = &Resource[models.Service, *models.Service]{
	Entity:     "Service",
	Plural:     "services",
	Collection: database.ServicesCollection,
}

var Bookings = &Resource[models.Booking, *models.Booking]{
	Entity:     "Booking",
	Plural:     "bookings",
	Collection: database.BookingsCollection,
	AfterSave:  afterSaveBooking,
}

var Reviews = &Resource[models.Review, *models.Review]{
	Entity:     "Review",
	Plural:     "reviews",
	Collection: database.ReviewsCollection,
}

var PortfolioItems = &Resource[models.PortfolioItem, *models.PortfolioItem]{
	Entity:     "PortfolioItem",
	Plural:     "portfolio items",
	Collection: database.PortfolioItemsCollection,
}

var Notifications = &Resource[models.Notification, *models.Notification]{
	Entity:     "Notification",
	Plural:     "notifications",
	Collection: database.NotificationsCollection,
	AfterSave:  afterSaveNotification,
}
