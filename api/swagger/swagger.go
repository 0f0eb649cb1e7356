package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "IEP Minutes API",
        "description": "Service-minute tracking and goal reporting for special-education teams",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Staff", "description": "Service-provider roster"},
        {"name": "Students", "description": "Student records and weekly goals"},
        {"name": "Logs", "description": "Session minute logging"},
        {"name": "Reports", "description": "Aggregation reports"},
        {"name": "Exports", "description": "Asynchronous CSV/PDF exports"}
    ],
    "paths": {
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List the staff roster",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Add a staff member",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/staff/{id}": {
            "put": {
                "tags": ["Staff"],
                "summary": "Rename a staff member, rewriting their session logs",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Add a student",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get one student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["Students"],
                "summary": "Patch a student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Remove a student, leaving their logs orphaned",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}/subject/{subject}": {
            "put": {
                "tags": ["Students"],
                "summary": "Switch the student's active subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "subject", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/logs": {
            "get": {
                "tags": ["Logs"],
                "summary": "List session logs",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Logs"],
                "summary": "Record a session for one or more students",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/logs/import": {
            "post": {
                "tags": ["Logs"],
                "summary": "Import legacy session logs from CSV",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/summary": {
            "get": {
                "tags": ["Reports"],
                "summary": "Team-wide minutes summary",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/students/{id}/progress": {
            "get": {
                "tags": ["Reports"],
                "summary": "Student goal progress",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/goal-series": {
            "get": {
                "tags": ["Reports"],
                "summary": "Weekly goal-attainment series for a month",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Request a report export",
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/reports/export/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/export/{id}/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
