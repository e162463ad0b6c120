// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/register": {"post": {"tags": ["Users"], "summary": "Register a new user",
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.AuthResponse"}}, "409": {"description": "Conflict"}}}},
        "/login": {"post": {"tags": ["Users"], "summary": "Log in",
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}}, "401": {"description": "Unauthorized"}}}},
        "/logout": {"post": {"tags": ["Users"], "summary": "Clear the session cookie", "responses": {"204": {"description": "No Content"}}}},
        "/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Current user",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserResponse"}}}}},
        "/boards": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Boards the user owns or is a member of", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Create a board", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/boards/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Board with its columns and cards", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Rename a board", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Delete a board (owner only)", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/boards/{id}/activity": {"get": {"security": [{"BearerAuth": []}], "tags": ["Activity"], "summary": "Board activity feed, newest first",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "before", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}],
            "responses": {"200": {"description": "OK"}}}},
        "/cards/{id}/move": {"post": {"security": [{"BearerAuth": []}], "tags": ["Cards"], "summary": "Move a card to a position in a column",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.MoveCardRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MoveResponse"}}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/columns/{id}/move": {"post": {"security": [{"BearerAuth": []}], "tags": ["Columns"], "summary": "Move a column within its board",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.MoveColumnRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MoveResponse"}}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/invitations/{token}/accept": {"post": {"security": [{"BearerAuth": []}], "tags": ["Invitations"], "summary": "Accept an invitation as the logged-in user",
            "parameters": [{"type": "string", "name": "token", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "410": {"description": "Gone"}}}}
    },
    "definitions": {
        "handler.RegisterRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {
            "email": {"type": "string"}, "name": {"type": "string", "minLength": 2}, "password": {"type": "string", "minLength": 6}}},
        "handler.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.UserResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}}},
        "handler.AuthResponse": {"type": "object", "properties": {
            "token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.UserResponse"}}},
        "handler.MoveCardRequest": {"type": "object", "required": ["target_column_id"], "properties": {
            "target_column_id": {"type": "string"}, "from_column_id": {"type": "string"},
            "after_id": {"type": "string", "description": "sibling id, \"end\", or empty for the start"},
            "expected_revision": {"type": "integer"}}},
        "handler.MoveColumnRequest": {"type": "object", "properties": {
            "target_board_id": {"type": "string"},
            "after_id": {"type": "string", "description": "sibling id, \"end\", or empty for the start"},
            "expected_revision": {"type": "integer"}}},
        "handler.MoveResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "container_id": {"type": "string"}, "position": {"type": "number"},
            "revision": {"type": "integer"}, "rebalanced": {"type": "boolean"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Groove API",
	Description:      "Collaborative kanban boards with drag-and-drop ordering.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
