// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/auth/setup": {"post": {"tags": ["auth"], "summary": "Set up owner", "responses": {"201": {"description": "Created"}, "409": {"description": "Owner already set up"}}}},
        "/auth/sign-in": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/ws": {"get": {"tags": ["state"], "summary": "Widget stream", "responses": {"101": {"description": "Switching Protocols"}}}},
        "/api/v1/state": {"get": {"security": [{"BearerAuth": []}], "tags": ["state"], "summary": "Get widget state", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/clock": {"get": {"security": [{"BearerAuth": []}], "tags": ["state"], "summary": "Get clock face", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/timers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "List timers", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Add timer", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Clear timers", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/timers/at": {"post": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Add timer until a time of day", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/api/v1/timers/{id}/start": {"post": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Start timer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/timers/{id}/pause": {"post": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Pause timer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/timers/{id}/reset": {"post": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Reset timer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/timers/{id}/tick": {"post": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Tick timer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/timers/{id}/activate": {"post": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Set active timer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/timers/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["timers"], "summary": "Remove timer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/alarms": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["alarms"], "summary": "List alarms", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["alarms"], "summary": "Add alarm", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/alarms/next": {"get": {"security": [{"BearerAuth": []}], "tags": ["alarms"], "summary": "Next alarm", "responses": {"200": {"description": "OK"}, "204": {"description": "No alarm armed"}}}},
        "/api/v1/alarms/{id}": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["alarms"], "summary": "Update alarm", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["alarms"], "summary": "Remove alarm", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/alarms/{id}/toggle": {"post": {"security": [{"BearerAuth": []}], "tags": ["alarms"], "summary": "Toggle alarm", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/memos": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["memos"], "summary": "List memos", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["memos"], "summary": "Add memo", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/memos/colors": {"get": {"security": [{"BearerAuth": []}], "tags": ["memos"], "summary": "Memo palette", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/memos/{id}": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["memos"], "summary": "Update memo", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["memos"], "summary": "Remove memo", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/memos/{id}/activate": {"post": {"security": [{"BearerAuth": []}], "tags": ["memos"], "summary": "Set active memo", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/preferences": {"get": {"security": [{"BearerAuth": []}], "tags": ["preferences"], "summary": "Get preferences", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/preferences/clock-mode": {"put": {"security": [{"BearerAuth": []}], "tags": ["preferences"], "summary": "Set clock mode", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/v1/preferences/clock-mode/toggle": {"post": {"security": [{"BearerAuth": []}], "tags": ["preferences"], "summary": "Toggle clock mode", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/preferences/theme": {"put": {"security": [{"BearerAuth": []}], "tags": ["preferences"], "summary": "Set theme", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/v1/preferences/theme/toggle": {"post": {"security": [{"BearerAuth": []}], "tags": ["preferences"], "summary": "Toggle theme", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/preferences/onboarding/dismiss": {"post": {"security": [{"BearerAuth": []}], "tags": ["preferences"], "summary": "Dismiss onboarding", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/preferences/notification-permission": {"put": {"security": [{"BearerAuth": []}], "tags": ["preferences"], "summary": "Set notification permission", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/v1/logs/": {"get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "List logs", "parameters": [{"type": "string", "name": "day", "in": "query"}, {"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}, {"type": "string", "name": "type", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Timekeeper API",
	Description:      "Timers, daily alarms, memos and preferences behind a clock widget.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
