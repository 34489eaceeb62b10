// Package docs registers the OpenAPI document served under /swagger/*. It follows swag's
// output layout and is maintained by hand alongside the handlers' godoc annotations.
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
    "definitions": {
        "handler.errorEnvelope": {
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handler.errorPayload": {
            "properties": {
                "error": {
                    "$ref": "#/definitions/handler.errorEnvelope"
                },
                "request_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "model.APIInfo": {
            "properties": {
                "description": {
                    "type": "string"
                },
                "endpoints": {
                    "items": {
                        "$ref": "#/definitions/model.Endpoint"
                    },
                    "type": "array"
                },
                "message": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "model.ChatResult": {
            "properties": {
                "message": {
                    "type": "string"
                },
                "response": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            },
            "type": "object"
        },
        "model.CleanupStatus": {
            "properties": {
                "enabled": {
                    "type": "boolean"
                },
                "interval": {
                    "type": "string"
                },
                "last_error": {
                    "type": "string"
                },
                "last_removed": {
                    "type": "integer"
                },
                "last_run": {
                    "type": "string"
                },
                "retention": {
                    "type": "string"
                },
                "total_removed": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "model.Document": {
            "properties": {
                "content_type": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "filename": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "original_name": {
                    "type": "string"
                },
                "session_id": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                },
                "storage_path": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "model.DocumentList": {
            "properties": {
                "data": {
                    "items": {
                        "$ref": "#/definitions/model.Document"
                    },
                    "type": "array"
                },
                "total": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "model.DownloadLink": {
            "properties": {
                "url": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "model.Endpoint": {
            "properties": {
                "description": {
                    "type": "string"
                },
                "method": {
                    "type": "string"
                },
                "path": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "model.HealthStatus": {
            "properties": {
                "status": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "model.PurgeResult": {
            "properties": {
                "message": {
                    "type": "string"
                },
                "removed": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "model.UploadResponse": {
            "properties": {
                "document": {
                    "$ref": "#/definitions/model.Document"
                },
                "fileCount": {
                    "type": "integer"
                },
                "message": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            },
            "type": "object"
        }
    },
    "paths": {
        "/api/": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.APIInfo"
                        }
                    }
                },
                "summary": "API description and route list",
                "tags": [
                    "system"
                ]
            }
        },
        "/api/chat/{sessionId}": {
            "post": {
                "parameters": [
                    {
                        "description": "Session UUID",
                        "in": "path",
                        "name": "sessionId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "The user's message",
                        "in": "query",
                        "name": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.ChatResult"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    }
                },
                "summary": "Ask a question about the session's documents",
                "tags": [
                    "chat"
                ]
            }
        },
        "/api/cleanup": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.PurgeResult"
                        }
                    }
                },
                "summary": "Remove documents older than the retention window now",
                "tags": [
                    "maintenance"
                ]
            }
        },
        "/api/cleanup/status": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.CleanupStatus"
                        }
                    }
                },
                "summary": "Retention sweep status",
                "tags": [
                    "maintenance"
                ]
            }
        },
        "/api/documents/{sessionId}": {
            "get": {
                "parameters": [
                    {
                        "description": "Session UUID",
                        "in": "path",
                        "name": "sessionId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 10,
                        "description": "Page size (1-100)",
                        "in": "query",
                        "name": "limit",
                        "type": "integer"
                    },
                    {
                        "default": 0,
                        "description": "Offset",
                        "in": "query",
                        "name": "offset",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.DocumentList"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    }
                },
                "summary": "List a session's documents, newest first",
                "tags": [
                    "documents"
                ]
            }
        },
        "/api/documents/{sessionId}/{id}/download": {
            "get": {
                "parameters": [
                    {
                        "description": "Session UUID",
                        "in": "path",
                        "name": "sessionId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Document UUID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.DownloadLink"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    }
                },
                "summary": "Presigned download URL for one of the session's documents",
                "tags": [
                    "documents"
                ]
            }
        },
        "/api/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.HealthStatus"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    }
                },
                "summary": "Readiness probe",
                "tags": [
                    "system"
                ]
            }
        },
        "/api/session/{sessionId}": {
            "delete": {
                "parameters": [
                    {
                        "description": "Session UUID",
                        "in": "path",
                        "name": "sessionId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.PurgeResult"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    }
                },
                "summary": "Delete every document and the conversation of a session",
                "tags": [
                    "sessions"
                ]
            }
        },
        "/api/upload-document/{sessionId}": {
            "post": {
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "description": "Session UUID",
                        "in": "path",
                        "name": "sessionId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "PDF, DOCX or TXT, at most 10 MiB",
                        "in": "formData",
                        "name": "file",
                        "required": true,
                        "type": "file"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.UploadResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    },
                    "413": {
                        "description": "Request Entity Too Large",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    },
                    "415": {
                        "description": "Unsupported Media Type",
                        "schema": {
                            "$ref": "#/definitions/handler.errorPayload"
                        }
                    }
                },
                "summary": "Upload one document into a session",
                "tags": [
                    "documents"
                ]
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DocuChat API",
	Description:      "Upload documents to a session and chat about their content.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
