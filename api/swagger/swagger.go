package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Cursos API",
        "description": "Course catalogue CRUD with hypermedia links",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "tags": [
        {"name": "Courses", "description": "Course catalogue (v3)"},
        {"name": "Courses (hypermedia)", "description": "Courses decorated with navigation links (v4)"}
    ],
    "paths": {
        "/health": {"get": {"summary": "Liveness check", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Store unreachable"}}}},
        "/v3/cursos": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/Course"}}],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/Course"}},
                    "400": {"description": "Invalid payload"},
                    "500": {"description": "Store failure"}
                }
            }
        },
        "/v3/cursos/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course by id",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer", "format": "int32"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Course"}}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer", "format": "int32"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/Course"}}
                ],
                "responses": {"200": {"description": "Saved", "schema": {"$ref": "#/definitions/Course"}}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer", "format": "int32"}],
                "responses": {"204": {"description": "Deleted"}, "500": {"description": "Store failure"}}
            }
        },
        "/v3/cursos/filter": {
            "post": {
                "tags": ["Courses"],
                "summary": "Search courses by code fragment",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CourseFilter"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}, "404": {"description": "No match"}}
            }
        },
        "/v3/cursos/export": {
            "get": {
                "tags": ["Courses"],
                "summary": "Download the course catalogue",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/v4/cursos/hateoas": {
            "get": {
                "tags": ["Courses (hypermedia)"],
                "summary": "List courses with navigation links",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/LinkedCourse"}}}}
            }
        },
        "/v4/cursos/hateoas/{id}": {
            "get": {
                "tags": ["Courses (hypermedia)"],
                "summary": "Get course by id with navigation links",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer", "format": "int32"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LinkedCourse"}}, "404": {"description": "Not found"}}
            }
        }
    },
    "definitions": {
        "Course": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "id": {"type": "integer", "format": "int32", "readOnly": true},
                "code": {"type": "string", "example": "MC102"},
                "description": {"type": "string", "example": "Intro to Programming"}
            }
        },
        "CourseFilter": {
            "type": "object",
            "properties": {"code": {"type": "string", "example": "MC"}}
        },
        "Link": {
            "type": "object",
            "properties": {
                "rel": {"type": "string", "enum": ["self", "all"]},
                "href": {"type": "string"},
                "method": {"type": "string", "example": "GET"}
            }
        },
        "LinkedCourse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "format": "int32", "readOnly": true},
                "code": {"type": "string"},
                "description": {"type": "string"},
                "links": {"type": "array", "items": {"$ref": "#/definitions/Link"}}
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
