package validators

import "go.mongodb.org/mongo-driver/bson"

var objectIDString = bson.M{
	"bsonType":  "string",
	"minLength": 24,
	"maxLength": 24,
}

var location = bson.M{
	"bsonType": "object",
	"required": []string{"address"},
	"properties": bson.M{
		"address": bson.M{
			"bsonType":  "string",
			"minLength": 3,
			"maxLength": 300,
		},
		"coordinates": bson.M{
			"bsonType": "array",
			"minItems": 2,
			"maxItems": 2,
			"items":    bson.M{"bsonType": []string{"double", "int", "long"}},
		},
	},
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user",
			"booking_type",
			"patient_details",
			"pickup_location",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user":    objectIDString,
			"driver":  objectIDString,
			"vehicle": objectIDString,

			"booking_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"emergency", "scheduled", "transfer"},
			},

			"patient_details": bson.M{
				"bsonType": "object",
				"required": []string{"name"},
				"properties": bson.M{
					"name": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
					"age":  bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 150},
				},
			},

			"pickup_location": location,
			"drop_location":   location,

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"in-progress",
					"completed",
					"cancelled",
				},
			},

			"fare": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"amount":   bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0},
					"currency": bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
				},
			},

			"cancelled_by": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "driver", "admin", "system"},
			},

			"rating": bson.M{
				"bsonType": "object",
				"required": []string{"value"},
				"properties": bson.M{
					"value": bson.M{"bsonType": []string{"int", "long"}, "minimum": 1, "maximum": 5},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
