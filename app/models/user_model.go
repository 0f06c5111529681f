package models

type User struct {
	Base               `bson:",inline"`
	Email              string `json:"email" bson:"email" validate:"required,email,lte=255"`
	Password           string `json:"password,omitempty" bson:"password" validate:"required,lte=72"`
	FullName           string `json:"full_name" bson:"full_name" validate:"required,lte=255"`
	Phone              string `json:"phone" bson:"phone" validate:"omitempty,lte=30"`
	IsVerified         bool   `json:"is_verified" bson:"is_verified"`
	LocationCountry    string `json:"location_country" bson:"location_country"`
	LocationDepartment string `json:"location_department" bson:"location_department"`
	PhonePublic        bool   `json:"phone_public" bson:"phone_public"`
}
