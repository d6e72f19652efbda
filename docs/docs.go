// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/analyze": {
            "post": {
                "description": "Store the image, extract text, categorize it and suggest saving tips. Renders the upload page with the result.",
                "consumes": ["multipart/form-data"],
                "produces": ["text/html"],
                "tags": ["web"],
                "summary": "Analyze a receipt (HTML)",
                "parameters": [
                    {"type": "file", "description": "Receipt image", "name": "receipt", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "HTML page with the result", "schema": {"type": "string"}},
                    "400": {"description": "No file uploaded", "schema": {"type": "string"}},
                    "500": {"description": "Storage upload error / Text extraction error / Database error", "schema": {"type": "string"}}
                }
            }
        },
        "/api/v1/receipts": {
            "get": {
                "description": "Stored expense records, newest first",
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "List analyzed receipts",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Limit", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ExpenseResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/receipts/analyze": {
            "post": {
                "description": "Store the image, extract text, categorize it and suggest saving tips",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "Analyze a receipt",
                "parameters": [
                    {"type": "file", "description": "Receipt image", "name": "receipt", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AnalysisResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AnalysisResponse": {
            "type": "object",
            "properties": {
                "advice": {"type": "string"},
                "category": {"type": "string"},
                "file_id": {"type": "string"},
                "id": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "dto.ExpenseResponse": {
            "type": "object",
            "properties": {
                "advice": {"type": "string"},
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "file_id": {"type": "string"},
                "id": {"type": "string"},
                "text": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Receipt Analyzer API",
	Description:      "Receipt image analysis: OCR, expense categorization and saving tips",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
