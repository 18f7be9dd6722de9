package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the matching service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>resumematch - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "resumematch", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Upload": { "type": "object", "properties": { "file": { "type": "string", "format": "binary" } }, "required": ["file"] },
      "IngestResponse": { "type": "object", "properties": {
        "document_id": { "type": "string" }, "answer": { "type": "string" },
        "years_of_experience": { "type": "string" }, "technical_skills": { "type": "string" },
        "extraction_status": { "type": "string", "enum": ["extracted", "partial", "not_extracted"] } } },
      "MatchResponse": { "type": "object", "properties": {
        "resume_file": { "type": "string" }, "job_description_file": { "type": "string" },
        "match_percentage": { "type": "number" }, "resume_id": { "type": "string" }, "job_description_id": { "type": "string" } } },
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } }
    }
  },
  "paths": {
    "/resume/extract-experience-skills/": {
      "post": {
        "summary": "Ingest a résumé (pdf, docx or txt)",
        "requestBody": { "content": { "multipart/form-data": { "schema": { "$ref": "#/components/schemas/Upload" } } } },
        "responses": { "200": { "description": "record written", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/IngestResponse" } } } },
          "400": { "description": "unsupported, undecodable or empty file" }, "413": { "description": "file too large" },
          "502": { "description": "language model failure" }, "503": { "description": "store unavailable" } }
      }
    },
    "/job-description/extract-experience-skills/": {
      "post": {
        "summary": "Ingest a job description (pdf, docx or txt)",
        "requestBody": { "content": { "multipart/form-data": { "schema": { "$ref": "#/components/schemas/Upload" } } } },
        "responses": { "200": { "description": "record written", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/IngestResponse" } } } },
          "400": { "description": "unsupported, undecodable or empty file" }, "502": { "description": "language model failure" } }
      }
    },
    "/match/": {
      "get": {
        "summary": "Match a résumé against a job description",
        "parameters": [
          { "name": "resume_filename", "in": "query", "schema": { "type": "string" } },
          { "name": "jd_filename", "in": "query", "schema": { "type": "string" } },
          { "name": "resume_id", "in": "query", "schema": { "type": "string" } },
          { "name": "jd_id", "in": "query", "schema": { "type": "string" } }
        ],
        "responses": { "200": { "description": "match percentage", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/MatchResponse" } } } },
          "400": { "description": "empty stored content" }, "404": { "description": "document not found" }, "500": { "description": "scoring failed" } }
      }
    },
    "/resume/documents": { "get": { "summary": "List résumé records by file_name", "parameters": [ { "name": "file_name", "in": "query", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "records, oldest first" } } } },
    "/resume/documents/{id}": { "get": { "summary": "Get a résumé record", "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "record" }, "404": { "description": "not found" } } } },
    "/resume/documents/{id}/file": { "get": { "summary": "Download the original résumé upload", "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "file" }, "404": { "description": "not found" } } } },
    "/job-description/documents": { "get": { "summary": "List job description records by file_name", "parameters": [ { "name": "file_name", "in": "query", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "records, oldest first" } } } },
    "/job-description/documents/{id}": { "get": { "summary": "Get a job description record", "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "record" }, "404": { "description": "not found" } } } },
    "/job-description/documents/{id}/file": { "get": { "summary": "Download the original job description upload", "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "file" }, "404": { "description": "not found" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
