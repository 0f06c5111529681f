package controllers

import (
	"errors"
	"strconv"

	"github.com/gilanghuda/corejob-backend/pkg/config"
	"github.com/gilanghuda/corejob-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// GeocodeClient serves the geocode handlers. It is set before the routes
// are mounted and only read afterwards.
var GeocodeClient *utils.Geocoder

// NewGeocodeClient builds the geocoder configured in config.App.
func NewGeocodeClient() *utils.Geocoder {
	return utils.NewGeocoder(config.App.GeocoderURL, config.App.GeocoderUserAgent)
}

func GeocodeAddress(c *fiber.Ctx) error {
	address := c.Query("q")
	if address == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Address is required", nil)
	}

	point, err := GeocodeClient.Forward(c.UserContext(), address)
	if errors.Is(err, utils.ErrNoGeocodeResult) {
		return errorResponse(c, fiber.StatusNotFound, "No results for address", nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusBadGateway, "Geocoding failed", err)
	}
	return c.Status(fiber.StatusOK).JSON(point)
}

func ReverseGeocode(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid coordinates", err)
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid coordinates", err)
	}

	point, err := GeocodeClient.Reverse(c.UserContext(), lat, lng)
	if errors.Is(err, utils.ErrNoGeocodeResult) {
		return errorResponse(c, fiber.StatusNotFound, "No results for coordinates", nil)
	}
	if err != nil {
		return errorResponse(c, fiber.StatusBadGateway, "Geocoding failed", err)
	}
	return c.Status(fiber.StatusOK).JSON(point)
}
