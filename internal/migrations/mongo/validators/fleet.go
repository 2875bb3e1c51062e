package validators

import "go.mongodb.org/mongo-driver/bson"

var DriverValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user", "license_number", "license_expiry", "vehicle", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "objectId"},
			"user":           objectIDString,
			"vehicle":        objectIDString,
			"license_number": bson.M{"bsonType": "string", "minLength": 4, "maxLength": 30},
			"license_expiry": bson.M{"bsonType": "date"},
			"is_available":   bson.M{"bsonType": "bool"},
			"is_verified":    bson.M{"bsonType": "bool"},
			"current_location": bson.M{
				"bsonType": "object",
				"required": []string{"type", "coordinates"},
				"properties": bson.M{
					"type":        bson.M{"enum": []string{"Point"}},
					"coordinates": bson.M{"bsonType": "array", "minItems": 2, "maxItems": 2},
				},
			},
			"rating":      bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0, "maximum": 5},
			"total_trips": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"active", "inactive", "suspended", "pending"},
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"registration_number", "type", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":                 bson.M{"bsonType": "objectId"},
			"registration_number": bson.M{"bsonType": "string", "minLength": 4, "maxLength": 20},
			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"Basic Life Support", "Advanced Life Support", "Patient Transport", "Neonatal"},
			},
			"year":     bson.M{"bsonType": []string{"int", "long"}, "minimum": 1990, "maximum": 2100},
			"capacity": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 20},
			"features": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"active", "maintenance", "out-of-service"},
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "role"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":   bson.M{"bsonType": "objectId"},
			"name":  bson.M{"bsonType": "string", "minLength": 1},
			"email": bson.M{"bsonType": "string", "minLength": 3},
			"phone": bson.M{"bsonType": "string"},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "driver", "admin"},
			},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"active", "inactive", "blocked"},
			},
		},
	},
}

var SettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "value", "updated_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"enum":     []string{"general", "pricing", "notifications", "appearance"},
			},
			"value":      bson.M{"bsonType": "object"},
			"updated_at": bson.M{"bsonType": "date"},
			"updated_by": bson.M{"bsonType": "string"},
		},
	},
}
