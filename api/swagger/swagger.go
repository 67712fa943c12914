package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Schedule Advisor API",
        "description": "Conversation-driven class schedule recommendations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Advisor", "description": "Preference conversation and ranked schedules"},
        {"name": "Observability", "description": "Health, readiness and counters"}
    ],
    "paths": {
        "/advisor/turns": {
            "post": {
                "tags": ["Advisor"],
                "summary": "Submit one conversation turn",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitTurnRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/advisor/sessions/{studentId}": {
            "get": {
                "tags": ["Advisor"],
                "summary": "Inspect the live conversation of a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Advisor"],
                "summary": "Discard the conversation of a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/advisor/results/{sessionId}": {
            "get": {
                "tags": ["Advisor"],
                "summary": "Fetch the ranked combinations of a completed session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/advisor/results/{sessionId}/export": {
            "get": {
                "tags": ["Advisor"],
                "summary": "Download the ranked combinations of a completed session",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "Not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No feasible schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/advisor/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated advisor and HTTP counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SubmitTurnRequest": {
            "type": "object",
            "required": ["student_id", "message"],
            "properties": {
                "student_id": {"type": "string"},
                "session_id": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "Question": {
            "type": "object",
            "properties": {
                "dimension": {"type": "string"},
                "framing": {"type": "string"},
                "prompt": {"type": "string"}
            }
        },
        "Selection": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "subject_name": {"type": "string"},
                "credits": {"type": "integer"},
                "class": {"type": "object"}
            }
        },
        "Combination": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "selections": {"type": "array", "items": {"$ref": "#/definitions/Selection"}},
                "metrics": {"type": "object"},
                "score": {"type": "number"},
                "recommended": {"type": "boolean"}
            }
        },
        "TurnResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "stage": {"type": "string"},
                "outcome": {"type": "string", "enum": ["question", "reask", "completed", "no_feasible_schedule", "infeasible", "unsupported_intent"]},
                "message": {"type": "string"},
                "question": {"$ref": "#/definitions/Question"},
                "guidance": {"type": "string"},
                "preference": {"type": "object"},
                "combinations": {"type": "array", "items": {"$ref": "#/definitions/Combination"}},
                "metadata": {"type": "object"},
                "restarted": {"type": "boolean"}
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
