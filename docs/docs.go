// Package docs holds the OpenAPI description served under /swagger/.
// Keep it in step with the handler annotations in cmd/api.
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
        "/contacts": {
            "get": {
                "description": "Contacts are ordered by name.",
                "produces": ["application/json"],
                "summary": "List contacts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/contact.Contact"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create contact",
                "parameters": [
                    {"description": "Contact", "name": "contact", "in": "body", "required": true, "schema": {"$ref": "#/definitions/contact.Form"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/contact.Contact"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            },
            "delete": {
                "summary": "Clear contacts",
                "parameters": [
                    {"type": "boolean", "description": "Must be true", "name": "confirm", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/export/contacts": {
            "get": {
                "produces": ["text/csv"],
                "summary": "Export contacts",
                "responses": {
                    "200": {"description": "Nome;Email;Telefone; rows", "schema": {"type": "string"}}
                }
            }
        },
        "/contacts/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get contact",
                "parameters": [
                    {"type": "string", "description": "Contact ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/contact.Contact"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Update contact",
                "parameters": [
                    {"type": "string", "description": "Contact ID", "name": "id", "in": "path", "required": true},
                    {"description": "Contact", "name": "contact", "in": "body", "required": true, "schema": {"$ref": "#/definitions/contact.Form"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/contact.Contact"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            },
            "delete": {
                "summary": "Delete contact",
                "parameters": [
                    {"type": "string", "description": "Contact ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/counts": {
            "get": {
                "description": "Items are ordered by EAN.",
                "produces": ["application/json"],
                "summary": "List counted items",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/count.Item"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Set item quantity",
                "parameters": [
                    {"description": "Item", "name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.countRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/count.Item"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            },
            "delete": {
                "summary": "Clear counting list",
                "parameters": [
                    {"type": "boolean", "description": "Must be true", "name": "confirm", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            }
        },
        "/export/counts": {
            "get": {
                "produces": ["text/csv"],
                "summary": "Export counting list",
                "responses": {
                    "200": {"description": "EAN;QTD; rows", "schema": {"type": "string"}}
                }
            }
        },
        "/counts/{ean}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get counted item",
                "parameters": [
                    {"type": "string", "description": "EAN", "name": "ean", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/count.Item"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Set item quantity by EAN",
                "parameters": [
                    {"type": "string", "description": "EAN", "name": "ean", "in": "path", "required": true},
                    {"description": "Quantity", "name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.countRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/count.Item"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/main.errorResponse"}}
                }
            },
            "delete": {
                "summary": "Delete counted item",
                "parameters": [
                    {"type": "string", "description": "EAN", "name": "ean", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "contact.Contact": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "nome": {"type": "string"},
                "telefone": {"type": "string"}
            }
        },
        "contact.Form": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "nome": {"type": "string"},
                "telefone": {"type": "string"}
            }
        },
        "count.Item": {
            "type": "object",
            "properties": {
                "ean": {"type": "string"},
                "qtd": {"type": "integer"}
            }
        },
        "main.countRequest": {
            "type": "object",
            "properties": {
                "ean": {"type": "string"},
                "qtd": {"type": "string"}
            }
        },
        "main.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "field": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8443",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "StockCount API",
	Description:      "API for inventory counting lists and customer registration",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
