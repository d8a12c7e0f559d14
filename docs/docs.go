// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/app/main.go -o docs
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
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"},
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "paths": {
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}},
        "/readyz": {"get": {"tags": ["health"], "summary": "Readiness check", "responses": {"200": {"description": "OK"}, "503": {"description": "Store unavailable"}}}},
        "/api/v1/ledger": {"get": {"tags": ["ledger"], "summary": "Get balance", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "PLAYER_NOT_FOUND"}}}},
        "/api/v1/equipment/shop": {"get": {"tags": ["equipment"], "summary": "Browse the equipment shop", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "type", "in": "query", "description": "Slot filter"}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "INVALID_INPUT"}}}},
        "/api/v1/equipment/purchase": {"post": {"tags": ["equipment"], "summary": "Purchase equipment", "security": [{"BearerAuth": []}],
            "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PurchaseRequest"}}],
            "responses": {"201": {"description": "Created"}, "404": {"description": "NOT_FOUND"}, "409": {"description": "INSUFFICIENT_FUNDS or SLOT_MISMATCH"}}}},
        "/api/v1/equipment/sell": {"post": {"tags": ["equipment"], "summary": "Sell equipment", "security": [{"BearerAuth": []}],
            "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SellRequest"}}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "ITEM_NOT_FOUND"}}}},
        "/api/v1/equipment/inventory": {"get": {"tags": ["equipment"], "summary": "Get inventory", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/equipment/slot/{slot}": {"post": {"tags": ["equipment"], "summary": "Equip or unequip a slot", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "slot", "in": "path", "required": true}, {"name": "request", "in": "body", "schema": {"$ref": "#/definitions/handler.SlotRequest"}}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "ITEM_NOT_FOUND"}, "409": {"description": "SLOT_MISMATCH"}}}},
        "/api/v1/market": {"get": {"tags": ["market"], "summary": "Browse the marketplace", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "type", "in": "query", "description": "gems, metals, quartz or all"}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "INVALID_INPUT"}}}},
        "/api/v1/market/stream": {"get": {"tags": ["market"], "summary": "Listing event stream", "produces": ["text/event-stream"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "SSE"}}}},
        "/api/v1/market/listings": {"post": {"tags": ["market"], "summary": "Create listing", "security": [{"BearerAuth": []}],
            "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateListingRequest"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "INVALID_RANGE"}, "409": {"description": "INSUFFICIENT_QUANTITY"}}}},
        "/api/v1/market/listings/mine": {"get": {"tags": ["market"], "summary": "My listings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/market/listings/{id}": {"delete": {"tags": ["market"], "summary": "Cancel listing", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "403": {"description": "NOT_OWNER"}, "409": {"description": "LISTING_NOT_ACTIVE"}}}},
        "/api/v1/market/listings/{id}/buy": {"post": {"tags": ["market"], "summary": "Buy listing", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "LISTING_NOT_ACTIVE, SELF_TRADE or INSUFFICIENT_FUNDS"}}}},
        "/api/v1/admin/players": {"post": {"tags": ["admin"], "summary": "Provision a player ledger", "security": [{"ApiKeyAuth": []}],
            "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ProvisionRequest"}}],
            "responses": {"200": {"description": "Existing"}, "201": {"description": "Created"}}}},
        "/api/v1/admin/players/{id}/grant": {"post": {"tags": ["admin"], "summary": "Grant resources", "security": [{"ApiKeyAuth": []}],
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GrantRequest"}}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "INSUFFICIENT_FUNDS"}}}}
    },
    "definitions": {
        "handler.PurchaseRequest": {"type": "object", "required": ["equipment_id"], "properties": {"equipment_id": {"type": "string"}, "type": {"type": "string"}}},
        "handler.SellRequest": {"type": "object", "required": ["inventory_id"], "properties": {"inventory_id": {"type": "string"}}},
        "handler.SlotRequest": {"type": "object", "properties": {"item_id": {"type": "string"}}},
        "handler.CreateListingRequest": {"type": "object", "required": ["item_type"], "properties": {"item_type": {"type": "string"}, "quantity": {"type": "integer"}, "unit_price": {"type": "integer"}}},
        "handler.ProvisionRequest": {"type": "object", "required": ["player_id"], "properties": {"player_id": {"type": "string"}, "opening": {"$ref": "#/definitions/domain.Balance"}}},
        "handler.GrantRequest": {"type": "object", "required": ["reason"], "properties": {"delta": {"$ref": "#/definitions/domain.Balance"}, "reason": {"type": "string"}}},
        "domain.Balance": {"type": "object", "properties": {"gold": {"type": "integer"}, "gems": {"type": "integer"}, "metals": {"type": "integer"}, "quartz": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Guild Ledger API",
	Description:      "Player economy: ledger, equipment shop, slots and resource marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
