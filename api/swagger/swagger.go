package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Admin API",
        "description": "Admin API for class schedules, sections and the audit trail",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "tags": [
        {"name": "Sections", "description": "Section catalogue"},
        {"name": "Classes", "description": "Scheduled class meetings"},
        {"name": "Audit", "description": "Admin-only audit trail"},
        {"name": "Status", "description": "Dashboard health and caller introspection"},
        {"name": "Session", "description": "Session cookies and admin bootstrap"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Liveness check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "summary": "Readiness check (database ping)",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unreachable"}}
            }
        },
        "/api/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "List sections ordered by id",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Section"}}},
                    "500": {"description": "Failure", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "post": {
                "tags": ["Sections"],
                "summary": "Create section",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SectionInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Section"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden or bad origin", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Already exists", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/sections/{id}": {
            "patch": {
                "tags": ["Sections"],
                "summary": "Rename section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SectionInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Section"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Sections"],
                "summary": "Delete section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/OK"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes ordered by day, start, id",
                "parameters": [
                    {"name": "section_id", "in": "query", "type": "string"},
                    {"name": "day", "in": "query", "type": "string", "description": "1-7, weekday name or all"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ClassPage"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Class"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Class"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "patch": {
                "tags": ["Classes"],
                "summary": "Patch class; null clears nullable fields",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Class"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/OK"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List audit entries newest first",
                "parameters": [
                    {"name": "table", "in": "query", "type": "string"},
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/AuditLog"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/audit/export": {
            "get": {
                "tags": ["Audit"],
                "summary": "Export audit entries",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "table", "in": "query", "type": "string"},
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/api/status": {
            "get": {
                "tags": ["Status"],
                "summary": "Dashboard health snapshot",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/StatusSnapshot"}}}
            }
        },
        "/api/whoami": {
            "get": {"tags": ["Status"], "summary": "Resolved identity or null", "responses": {"200": {"description": "OK"}}}
        },
        "/api/edge-info": {
            "get": {"tags": ["Status"], "summary": "Client address and location from proxy headers", "responses": {"200": {"description": "OK"}}}
        },
        "/api/admins/grant-self": {
            "post": {
                "tags": ["Session"],
                "summary": "Add the caller to admins (non-production only)",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/callback": {
            "post": {
                "tags": ["Session"],
                "summary": "Sync session cookies from an auth event",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OK"}}}
            }
        },
        "/logout": {
            "post": {"tags": ["Session"], "summary": "Clear session, redirect to login", "responses": {"302": {"description": "Redirect"}}},
            "get": {"tags": ["Session"], "summary": "Clear session, redirect to login", "responses": {"302": {"description": "Redirect"}}}
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FieldIssue"}
                }
            }
        },
        "FieldIssue": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "OK": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}}
        },
        "SectionInput": {
            "type": "object",
            "required": ["code"],
            "properties": {"code": {"type": "string", "maxLength": 40}}
        },
        "Section": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "code": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ClassInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 120},
                "code": {"type": "string", "maxLength": 20},
                "section_id": {"type": "integer"},
                "day": {"type": "integer", "minimum": 1, "maximum": 7, "x-nullable": true},
                "start": {"type": "string", "example": "08:00"},
                "end": {"type": "string", "example": "09:30"},
                "units": {"type": "integer", "minimum": 0, "maximum": 12, "x-nullable": true},
                "room": {"type": "string", "maxLength": 40, "x-nullable": true},
                "instructor": {"type": "string", "maxLength": 80, "x-nullable": true}
            }
        },
        "Class": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "section_id": {"type": "integer"},
                "day": {"type": "integer", "x-nullable": true},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "code": {"type": "string"},
                "title": {"type": "string"},
                "units": {"type": "integer", "x-nullable": true},
                "room": {"type": "string", "x-nullable": true},
                "instructor": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ClassPage": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/Class"}},
                "count": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "AuditLog": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "user_id": {"type": "string"},
                "table_name": {"type": "string"},
                "action": {"type": "string", "enum": ["insert", "update", "delete", "error"]},
                "row_id": {"type": "string", "x-nullable": true},
                "details": {"type": "object"}
            }
        },
        "StatusSnapshot": {
            "type": "object",
            "properties": {
                "db": {"type": "object"},
                "auth": {"type": "object"},
                "counts": {"type": "object"},
                "lastUpdate": {"type": "object"},
                "recentErrors": {"type": "array", "items": {"type": "object"}},
                "hasUrl": {"type": "boolean"},
                "hasKey": {"type": "boolean"},
                "env": {"type": "object"},
                "generatedAt": {"type": "string", "format": "date-time"}
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
