package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Roster API",
        "description": "Shift scheduling and notification service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Shifts", "description": "Shift scheduling and weekly views"},
        {"name": "Notifications", "description": "Shift email dispatch"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Return the authenticated identity",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shifts": {
            "get": {
                "tags": ["Shifts"],
                "summary": "List shifts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "personId", "in": "query", "type": "string"},
                    {"name": "kind", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Shifts"],
                "summary": "Create one shift",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateShiftRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/shifts/bulk": {
            "post": {
                "tags": ["Shifts"],
                "summary": "Create multiple shifts, skipping drafts that fail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkCreateShiftsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shifts/assign-week": {
            "post": {
                "tags": ["Shifts"],
                "summary": "Expand a pattern into a week of shifts for a roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignWeekRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "A requested person is unknown or not shift-eligible"}
                }
            }
        },
        "/shifts/eligible": {
            "get": {
                "tags": ["Shifts"],
                "summary": "List persons assignable to shifts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shifts/week": {
            "get": {
                "tags": ["Shifts"],
                "summary": "All shifts for one week across the roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "start", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shifts/export": {
            "get": {
                "tags": ["Shifts"],
                "summary": "Download a weekly roster as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "start", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/shifts/{id}": {
            "put": {
                "tags": ["Shifts"],
                "summary": "Update a shift",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateShiftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Shift not found"}
                }
            },
            "delete": {
                "tags": ["Shifts"],
                "summary": "Delete a shift",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Shift not found"}
                }
            }
        },
        "/persons/{personId}/shifts": {
            "get": {
                "tags": ["Shifts"],
                "summary": "Every shift for one person",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "personId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/persons/{personId}/shifts/three-weeks": {
            "get": {
                "tags": ["Shifts"],
                "summary": "Prior, current and next week of shifts for one person",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "personId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/persons/{personId}/notifications/pending": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Shifts for one person falling on the current day",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "personId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/shifts/{id}": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Send the scheduled-shift email for one shift",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/notifications/shifts/{id}/remind": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Send the reminder email for one shift",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/notifications/bulk": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Send scheduled-shift emails for a batch of shifts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkNotifyRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateShiftRequest": {
            "type": "object",
            "required": ["person_id", "date", "start_time", "end_time"],
            "properties": {
                "person_id": {"type": "string"},
                "date": {"type": "string", "example": "2024-05-15"},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "16:00"},
                "kind": {"type": "string", "enum": ["MORNING", "AFTERNOON", "NIGHT", "FULL_DAY"]},
                "position": {"type": "string"},
                "notes": {"type": "string"},
                "holiday": {"type": "boolean"},
                "assigned": {"type": "boolean"}
            }
        },
        "UpdateShiftRequest": {
            "type": "object",
            "required": ["date", "start_time", "end_time"],
            "properties": {
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "kind": {"type": "string"},
                "position": {"type": "string"},
                "notes": {"type": "string"},
                "holiday": {"type": "boolean"}
            }
        },
        "BulkCreateShiftsRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/CreateShiftRequest"}}
            }
        },
        "AssignWeekRequest": {
            "type": "object",
            "required": ["week_start", "person_ids"],
            "properties": {
                "week_start": {"type": "string", "example": "2024-05-12"},
                "person_ids": {"type": "array", "items": {"type": "string"}},
                "pattern": {"type": "string", "enum": ["ROTATING", "FIXED", "CUSTOM"]},
                "position": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "BulkNotifyRequest": {
            "type": "object",
            "required": ["shift_ids"],
            "properties": {
                "shift_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
