package validator

import (
	"errors"
	"io"
	"testing"

	"ambulink/pkg/logger"
	"ambulink/pkg/model"
)

func newTestValidator() *SettingsValidator {
	return NewSettingsValidator(logger.New(logger.Config{Level: "error", Format: logger.JSON, Output: io.Discard}))
}

func TestValidate_Defaults(t *testing.T) {
	v := newTestValidator()
	general := model.DefaultGeneralSettings()
	pricing := model.DefaultPricingSettings()
	notifications := model.DefaultNotificationSettings()
	appearance := model.DefaultAppearanceSettings()

	for _, s := range []any{&general, &pricing, &notifications, &appearance} {
		if err := v.Validate(s); err != nil {
			t.Errorf("defaults for %T should validate: %v", s, err)
		}
	}
}

func TestValidate_Rejections(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		value     func() any
		wantField string
	}{
		{
			name: "unknown timezone",
			value: func() any {
				s := model.DefaultGeneralSettings()
				s.Timezone = "Mars/Olympus"
				return &s
			},
			wantField: "GeneralSettings.Timezone",
		},
		{
			name: "bad email",
			value: func() any {
				s := model.DefaultGeneralSettings()
				s.ContactEmail = "nobody"
				return &s
			},
			wantField: "GeneralSettings.ContactEmail",
		},
		{
			name: "negative fare",
			value: func() any {
				s := model.DefaultPricingSettings()
				s.BaseFare = -1
				return &s
			},
			wantField: "PricingSettings.BaseFare",
		},
		{
			name: "currency length",
			value: func() any {
				s := model.DefaultPricingSettings()
				s.Currency = "RUPEE"
				return &s
			},
			wantField: "PricingSettings.Currency",
		},
		{
			name: "duplicate services",
			value: func() any {
				s := model.DefaultPricingSettings()
				s.AdditionalServices = append(s.AdditionalServices, model.AdditionalService{Name: "medical staff", Price: 10})
				return &s
			},
			wantField: "PricingSettings.AdditionalServices",
		},
		{
			name: "bad colour",
			value: func() any {
				s := model.DefaultAppearanceSettings()
				s.PrimaryColor = "blue"
				return &s
			},
			wantField: "AppearanceSettings.PrimaryColor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.value())
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs.Details()[tt.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantField, verrs.Details())
			}
		})
	}
}
