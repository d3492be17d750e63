package validators

import "go.mongodb.org/mongo-driver/bson"

var windowSchema = bson.M{
	"bsonType": "object",
	"required": []string{"start", "end"},
	"properties": bson.M{
		"start": bson.M{"bsonType": "date"},
		"end":   bson.M{"bsonType": "date"},
	},
}

var occupancyWindowsSchema = bson.M{
	"bsonType": "object",
	"required": []string{"service", "delivery_leg", "pickup_leg"},
	"properties": bson.M{
		"service":      windowSchema,
		"delivery_leg": windowSchema,
		"pickup_leg":   windowSchema,
	},
}

var BookingBlockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"resource_type",
			"resource_id",
			"start",
			"end",
			"owner_type",
			"owner_ref",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"resource_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"unit",
					"crew",
				},
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start": bson.M{
				"bsonType": "date",
			},

			"end": bson.M{
				"bsonType": "date",
			},

			"owner_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"hold",
					"booking",
				},
			},

			"owner_ref": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BlockLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"expires_at",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SoftHoldValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"session_id",
			"product_id",
			"unit_id",
			"delivery_crew_id",
			"pickup_crew_id",
			"event_date",
			"windows",
			"created_at",
			"expires_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"session_id": bson.M{
				"bsonType":  "string",
				"minLength": 8,
				"maxLength": 128,
			},

			"product_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"unit_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"delivery_crew_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"pickup_crew_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"event_date": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
			},

			"windows": occupancyWindowsSchema,

			"created_at": bson.M{
				"bsonType": "date",
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
