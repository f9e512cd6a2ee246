// Package docs registers the Swagger description of the filmmap API.
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
        "/geocode": {
            "get": {
                "summary": "Geocode a place name",
                "parameters": [
                    {"type": "string", "description": "place name or address", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Place"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/reverse-geocode": {
            "get": {
                "summary": "Resolve coordinates to an address",
                "parameters": [
                    {"type": "number", "description": "latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "longitude", "name": "lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.addressResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/candidates": {
            "get": {
                "summary": "List the filming locations selected for a year and coordinate",
                "parameters": [
                    {"type": "integer", "description": "release year", "name": "year", "in": "query", "required": true},
                    {"type": "string", "description": "lat, long", "name": "location", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Candidate"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/map": {
            "get": {
                "produces": ["text/html"],
                "summary": "Render the filming locations map",
                "parameters": [
                    {"type": "integer", "description": "release year", "name": "year", "in": "query", "required": true},
                    {"type": "string", "description": "lat, long", "name": "location", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.addressResponse": {
            "type": "object",
            "properties": {"address": {"type": "string"}}
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.Candidate": {
            "type": "object",
            "properties": {"location": {"type": "string"}, "title": {"type": "string"}}
        },
        "models.Coordinate": {
            "type": "object",
            "properties": {"latitude": {"type": "number"}, "longitude": {"type": "number"}}
        },
        "models.Place": {
            "type": "object",
            "properties": {
                "display_name": {"type": "string"},
                "coordinate": {"$ref": "#/definitions/models.Coordinate"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "filmmap API",
	Description:      "Filming locations near a coordinate, ranked by address similarity and rendered on a map.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
