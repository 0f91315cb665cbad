// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "404": {"description": "User no longer exists", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/sections": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["sections"],
                "summary": "List sections",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Section"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["sections"],
                "summary": "Create a section",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateSectionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Section"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/sections/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["sections"],
                "summary": "Delete a section",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Section not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/students": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["students"],
                "summary": "Create a student",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateStudentRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Missing fields or university ID already exists", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/students/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["students"],
                "summary": "Delete a student",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/files": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["files"],
                "summary": "List files",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.File"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["files"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "string", "name": "fileName", "in": "formData", "required": true},
                    {"type": "integer", "name": "section", "in": "formData", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.File"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Section not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/files/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["files"],
                "summary": "Delete a file",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "File not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/news": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["news"],
                "summary": "List news",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.News"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["news"],
                "summary": "Publish news",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateNewsRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.News"}}}
            }
        },
        "/admin/news/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["news"],
                "summary": "Delete news",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}}}
            }
        },
        "/admin/knowledge-base": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["knowledge-base"],
                "summary": "List knowledge base entries",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.KnowledgeEntry"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["knowledge-base"],
                "summary": "Add a knowledge base entry",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateKnowledgeRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.KnowledgeEntry"}}}
            }
        },
        "/admin/knowledge-base/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["knowledge-base"],
                "summary": "Delete a knowledge base entry",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}}}
            }
        },
        "/student/sections": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["sections"],
                "summary": "List sections",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Section"}}}}
            }
        },
        "/student/files/{sectionId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["files"],
                "summary": "List files of a section",
                "parameters": [{"type": "integer", "name": "sectionId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.File"}}}}
            }
        },
        "/student/news": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["news"],
                "summary": "List news",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.News"}}}}
            }
        },
        "/student/assistant/search": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["assistant"],
                "summary": "Search the knowledge base",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SearchRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.KnowledgeEntry"}}},
                    "400": {"description": "Query is required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.LoginRequest": {
            "type": "object",
            "required": ["universityId", "password"],
            "properties": {"universityId": {"type": "string"}, "password": {"type": "string"}}
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/models.User"}}
        },
        "dto.CreateSectionRequest": {
            "type": "object",
            "required": ["name", "icon"],
            "properties": {"name": {"type": "string", "example": "CS101"}, "icon": {"type": "string"}, "description": {"type": "string"}}
        },
        "dto.CreateStudentRequest": {
            "type": "object",
            "required": ["fullName", "universityId", "password"],
            "properties": {"fullName": {"type": "string"}, "universityId": {"type": "string"}, "password": {"type": "string"}}
        },
        "dto.CreateNewsRequest": {
            "type": "object",
            "required": ["title", "content"],
            "properties": {"title": {"type": "string"}, "content": {"type": "string"}}
        },
        "dto.CreateKnowledgeRequest": {
            "type": "object",
            "required": ["question", "answer"],
            "properties": {"question": {"type": "string"}, "answer": {"type": "string"}}
        },
        "dto.SearchRequest": {
            "type": "object",
            "required": ["query"],
            "properties": {"query": {"type": "string", "example": "refund"}}
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "Section deleted"}}
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "message": {"type": "string"},
                "code": {"type": "string", "example": "VAL_001"},
                "fields": {"type": "array", "items": {"type": "string"}},
                "error": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "fullName": {"type": "string"},
                "universityId": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "student"]},
                "createdAt": {"type": "string"}
            }
        },
        "models.Section": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "icon": {"type": "string"},
                "description": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "models.File": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "fileName": {"type": "string"},
                "sectionId": {"type": "integer"},
                "section": {"$ref": "#/definitions/models.Section"},
                "filePath": {"type": "string"},
                "fileUrl": {"type": "string"},
                "originalFileName": {"type": "string"},
                "fileSize": {"type": "integer"},
                "uploadedAt": {"type": "string"}
            }
        },
        "models.News": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "publishedAt": {"type": "string"}
            }
        },
        "models.KnowledgeEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "question": {"type": "string"},
                "answer": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        }
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Campus Portal API",
	Description:      "Sections, students, files, news and a knowledge base, with real-time updates over /ws.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
