package model

import "time"

const (
	SettingsGeneral       = "general"
	SettingsPricing       = "pricing"
	SettingsNotifications = "notifications"
	SettingsAppearance    = "appearance"
)

var SettingsSections = []string{
	SettingsGeneral,
	SettingsPricing,
	SettingsNotifications,
	SettingsAppearance,
}

type GeneralSettings struct {
	AppName                  string `json:"app_name" bson:"app_name" validate:"required,min=2,max=100"`
	ContactEmail             string `json:"contact_email" bson:"contact_email" validate:"required,email"`
	ContactPhone             string `json:"contact_phone" bson:"contact_phone" validate:"required,min=5,max=20"`
	EmergencyNumber          string `json:"emergency_number" bson:"emergency_number" validate:"required,min=2,max=15"`
	Address                  string `json:"address" bson:"address" validate:"max=300"`
	Timezone                 string `json:"timezone" bson:"timezone" validate:"required,timezone"`
	DateFormat               string `json:"date_format" bson:"date_format" validate:"required,oneof=DD/MM/YYYY MM/DD/YYYY YYYY-MM-DD"`
	EnableRegistration       bool   `json:"enable_registration" bson:"enable_registration"`
	RequireEmailVerification bool   `json:"require_email_verification" bson:"require_email_verification"`
}

type AdditionalService struct {
	Name  string  `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Price float64 `json:"price" bson:"price" validate:"gte=0"`
}

type PricingSettings struct {
	BaseFare               float64             `json:"base_fare" bson:"base_fare" validate:"gte=0"`
	PerKmCharge            float64             `json:"per_km_charge" bson:"per_km_charge" validate:"gte=0"`
	EmergencySurcharge     float64             `json:"emergency_surcharge" bson:"emergency_surcharge" validate:"gte=0"`
	NightSurcharge         float64             `json:"night_surcharge" bson:"night_surcharge" validate:"gte=0"`
	WaitingChargePerMinute float64             `json:"waiting_charge_per_minute" bson:"waiting_charge_per_minute" validate:"gte=0"`
	CancellationFee        float64             `json:"cancellation_fee" bson:"cancellation_fee" validate:"gte=0"`
	Currency               string              `json:"currency" bson:"currency" validate:"required,len=3"`
	AdditionalServices     []AdditionalService `json:"additional_services" bson:"additional_services" validate:"max=20,dive"`
}

// ServicePrice returns the configured price of an additional service, or
// zero when it is not offered.
func (p PricingSettings) ServicePrice(name string) float64 {
	for _, s := range p.AdditionalServices {
		if s.Name == name {
			return s.Price
		}
	}
	return 0
}

type MessageTemplates struct {
	BookingConfirmation string `json:"booking_confirmation" bson:"booking_confirmation" validate:"max=2000"`
	DriverAssignment    string `json:"driver_assignment" bson:"driver_assignment" validate:"max=2000"`
	BookingCancellation string `json:"booking_cancellation" bson:"booking_cancellation" validate:"max=2000"`
}

type NotificationSettings struct {
	EnableEmailNotifications bool             `json:"enable_email_notifications" bson:"enable_email_notifications"`
	EnableSMSNotifications   bool             `json:"enable_sms_notifications" bson:"enable_sms_notifications"`
	EnablePushNotifications  bool             `json:"enable_push_notifications" bson:"enable_push_notifications"`
	AdminAlertNewBooking     bool             `json:"admin_alert_new_booking" bson:"admin_alert_new_booking"`
	EmailTemplates           MessageTemplates `json:"email_templates" bson:"email_templates"`
	SMSTemplates             MessageTemplates `json:"sms_templates" bson:"sms_templates"`
}

type AppearanceSettings struct {
	PrimaryColor   string `json:"primary_color" bson:"primary_color" validate:"required,hexcolor"`
	SecondaryColor string `json:"secondary_color" bson:"secondary_color" validate:"required,hexcolor"`
	AccentColor    string `json:"accent_color" bson:"accent_color" validate:"required,hexcolor"`
	Theme          string `json:"theme" bson:"theme" validate:"required,oneof=light dark"`
	EnableDarkMode bool   `json:"enable_dark_mode" bson:"enable_dark_mode"`
	ShowLogo       bool   `json:"show_logo" bson:"show_logo"`
	LogoURL        string `json:"logo_url" bson:"logo_url" validate:"omitempty,url"`
	FaviconURL     string `json:"favicon_url" bson:"favicon_url" validate:"omitempty,url"`
}

func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		AppName:                  "Ambulance Booking System",
		ContactEmail:             "contact@ambulancebooking.com",
		ContactPhone:             "+91 1234567890",
		EmergencyNumber:          "108",
		Address:                  "123 Healthcare Street, Medical District, City - 110001",
		Timezone:                 "Asia/Kolkata",
		DateFormat:               "DD/MM/YYYY",
		EnableRegistration:       true,
		RequireEmailVerification: true,
	}
}

func DefaultPricingSettings() PricingSettings {
	return PricingSettings{
		BaseFare:               200,
		PerKmCharge:            15,
		EmergencySurcharge:     100,
		NightSurcharge:         50,
		WaitingChargePerMinute: 2,
		CancellationFee:        100,
		Currency:               DefaultCurrency,
		AdditionalServices: []AdditionalService{
			{Name: "Oxygen Support", Price: 150},
			{Name: "Medical Staff", Price: 300},
			{Name: "Advanced Life Support", Price: 500},
		},
	}
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EnableEmailNotifications: true,
		EnableSMSNotifications:   true,
		EnablePushNotifications:  false,
		AdminAlertNewBooking:     true,
		EmailTemplates: MessageTemplates{
			BookingConfirmation: "Your ambulance booking {{booking_id}} has been confirmed.",
			DriverAssignment:    "Driver {{driver_name}} has been assigned to your booking {{booking_id}}.",
			BookingCancellation: "Your booking {{booking_id}} has been cancelled.",
		},
		SMSTemplates: MessageTemplates{
			BookingConfirmation: "Booking {{booking_id}} confirmed.",
			DriverAssignment:    "Driver {{driver_name}} assigned. Contact: {{driver_phone}}",
			BookingCancellation: "Booking {{booking_id}} cancelled.",
		},
	}
}

func DefaultAppearanceSettings() AppearanceSettings {
	return AppearanceSettings{
		PrimaryColor:   "#1976D2",
		SecondaryColor: "#26A69A",
		AccentColor:    "#9C27B0",
		Theme:          "light",
		EnableDarkMode: true,
		ShowLogo:       true,
	}
}

// FareQuote is a priced estimate for a prospective booking.
type FareQuote struct {
	BaseFare           float64 `json:"base_fare"`
	DistanceCharge     float64 `json:"distance_charge"`
	EmergencySurcharge float64 `json:"emergency_surcharge"`
	NightSurcharge     float64 `json:"night_surcharge"`
	ServicesCharge     float64 `json:"services_charge"`
	Total              float64 `json:"total"`
	Currency           string  `json:"currency"`
	DistanceKm         float64 `json:"distance_km"`
	EstimatedMinutes   int     `json:"estimated_minutes"`
}

type FareQuoteRequest struct {
	BookingType    string    `json:"booking_type" validate:"required,oneof=emergency scheduled transfer"`
	PickupLocation Location  `json:"pickup_location"`
	DropLocation   *Location `json:"drop_location,omitempty"`
	Requirements   []string  `json:"requirements,omitempty"`
	At             time.Time `json:"at,omitempty"`
}
