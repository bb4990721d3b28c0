package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Records API",
        "description": "Role-based teaching load and grade records service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "x-api-key", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "API key login"},
        {"name": "TeachingLoads", "description": "Teaching load assignments"},
        {"name": "Grades", "description": "Scope-matched grade records"},
        {"name": "Audit", "description": "Audit log access"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Resolve an API key to a profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Missing key", "schema": {"$ref": "#/definitions/Error"}},
                    "401": {"description": "Invalid or expired key", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/teaching-loads": {
            "get": {
                "tags": ["TeachingLoads"],
                "summary": "List teaching loads",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "school_year_id", "in": "query", "type": "string"},
                    {"name": "school_level", "in": "query", "type": "string"},
                    {"name": "program_code", "in": "query", "type": "string"},
                    {"name": "year_level", "in": "query", "type": "string"},
                    {"name": "section", "in": "query", "type": "string"},
                    {"name": "teacher_id", "in": "query", "type": "string"},
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/TeachingLoad"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "tags": ["TeachingLoads"],
                "summary": "Create teaching load (admin)",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLoadRequest"}}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/LoadMutationResponse"}},
                    "400": {"description": "Validation or reference failure", "schema": {"$ref": "#/definitions/Error"}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/teaching-loads/{id}": {
            "put": {
                "tags": ["TeachingLoads"],
                "summary": "Update teaching load (admin)",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLoadRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/LoadMutationResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["TeachingLoads"],
                "summary": "Deactivate teaching load (admin)",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deactivated"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "List visible grades",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "school_year_id", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "program_code", "in": "query", "type": "string"},
                    {"name": "year_level", "in": "query", "type": "string"},
                    {"name": "section", "in": "query", "type": "string"},
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "teacher_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GradeList"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "tags": ["Grades"],
                "summary": "Update a grade value",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/Error"}},
                    "403": {"description": "Outside teaching scope", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Grade not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/grades/export": {
            "get": {
                "tags": ["Grades"],
                "summary": "Export visible grades as CSV or PDF",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Grade sheet download"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/audit-logs": {
            "get": {
                "tags": ["Audit"],
                "summary": "List audit log entries (admin)",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/AuditLogEntry"}}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "api_key": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/Profile"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "active": {"type": "boolean"},
                "expiration_date": {"type": "string"}
            }
        },
        "TeachingLoad": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "teacher_id": {"type": "integer"},
                "course_id": {"type": "string"},
                "section": {"type": "string"},
                "year_level": {"type": "integer"},
                "program_code": {"type": "string"},
                "school_level": {"type": "string"},
                "school_year_id": {"type": "integer"},
                "semester": {"type": "integer"},
                "is_active": {"type": "boolean"}
            }
        },
        "CreateLoadRequest": {
            "type": "object",
            "properties": {
                "teacher_id": {"type": "integer"},
                "course_id": {"type": "string"},
                "section": {"type": "string"},
                "year_level": {"type": "integer"},
                "program_code": {"type": "string"},
                "school_level": {"type": "string"},
                "school_year_id": {"type": "integer"},
                "semester": {"type": "integer"}
            }
        },
        "UpdateLoadRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "section": {"type": "string"},
                "year_level": {"type": "integer"},
                "program_code": {"type": "string"},
                "school_level": {"type": "string"},
                "school_year_id": {"type": "integer"},
                "semester": {"type": "integer"},
                "is_active": {"type": "boolean"}
            }
        },
        "LoadMutationResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "load": {"$ref": "#/definitions/TeachingLoad"}
            }
        },
        "UpdateGradeRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "grade_value": {"type": "number"}
            }
        },
        "GradeList": {
            "type": "object",
            "properties": {
                "grades": {"type": "array", "items": {"type": "object"}},
                "metadata": {
                    "type": "object",
                    "properties": {
                        "total_students": {"type": "integer"},
                        "total_courses": {"type": "integer"}
                    }
                }
            }
        },
        "AuditLogEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "actor_kind": {"type": "string"},
                "actor_id": {"type": "integer"},
                "action": {"type": "string"},
                "details": {"type": "object"},
                "timestamp": {"type": "string"}
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
