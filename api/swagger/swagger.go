package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Payroll API",
        "description": "Teaching assignments, rate settings and salary calculations for university lecturers",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {
            "name": "Academic Years"
        },
        {
            "name": "Semesters"
        },
        {
            "name": "Departments"
        },
        {
            "name": "Degrees"
        },
        {
            "name": "Subjects"
        },
        {
            "name": "Teachers"
        },
        {
            "name": "Classes"
        },
        {
            "name": "Teaching Assignments"
        },
        {
            "name": "Rate Settings"
        },
        {
            "name": "Salaries"
        },
        {
            "name": "Observability"
        }
    ],
    "paths": {
        "/academic-years": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List academic years",
                "tags": [
                    "Academic Years"
                ],
                "parameters": [
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Search by code or name",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create academic year",
                "tags": [
                    "Academic Years"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Academic year payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/academic-years/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get academic year",
                "tags": [
                    "Academic Years"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Academic year ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update academic year",
                "tags": [
                    "Academic Years"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Academic year ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Academic year payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Delete academic year",
                "tags": [
                    "Academic Years"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Academic year ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/semesters": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List semesters",
                "tags": [
                    "Semesters"
                ],
                "parameters": [
                    {
                        "name": "academic_year_id",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create semester",
                "tags": [
                    "Semesters"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Semester payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/semesters/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get semester",
                "tags": [
                    "Semesters"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Semester ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update semester",
                "tags": [
                    "Semesters"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Semester ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Semester payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "summary": "Delete semester",
                "tags": [
                    "Semesters"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Semester ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/departments": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List departments",
                "tags": [
                    "Departments"
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create department",
                "tags": [
                    "Departments"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Department payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/departments/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get department",
                "tags": [
                    "Departments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Department ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update department",
                "tags": [
                    "Departments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Department ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Department payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "summary": "Delete department",
                "tags": [
                    "Departments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Department ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/degrees": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List degrees",
                "tags": [
                    "Degrees"
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create degree",
                "tags": [
                    "Degrees"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Degree payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/degrees/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get degree",
                "tags": [
                    "Degrees"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Degree ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update degree",
                "tags": [
                    "Degrees"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Degree ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Degree payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "summary": "Delete degree",
                "tags": [
                    "Degrees"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Degree ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/subjects": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List subjects",
                "tags": [
                    "Subjects"
                ],
                "parameters": [
                    {
                        "name": "department_id",
                        "in": "query",
                        "required": false,
                        "description": "Owning department",
                        "type": "string"
                    },
                    {
                        "name": "subject_type",
                        "in": "query",
                        "required": false,
                        "description": "theory, practice or mixed",
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Search by code or name",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create subject",
                "tags": [
                    "Subjects"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Subject payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/subjects/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get subject",
                "tags": [
                    "Subjects"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Subject ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update subject",
                "tags": [
                    "Subjects"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Subject ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Subject payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "summary": "Delete subject",
                "tags": [
                    "Subjects"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Subject ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/teachers": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List teachers",
                "tags": [
                    "Teachers"
                ],
                "parameters": [
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Search by code, name or email",
                        "type": "string"
                    },
                    {
                        "name": "department_id",
                        "in": "query",
                        "required": false,
                        "description": "Filter by department",
                        "type": "string"
                    },
                    {
                        "name": "position",
                        "in": "query",
                        "required": false,
                        "description": "Filter by position",
                        "type": "string"
                    },
                    {
                        "name": "active",
                        "in": "query",
                        "required": false,
                        "description": "Filter by active status",
                        "type": "boolean"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    },
                    {
                        "name": "sort",
                        "in": "query",
                        "required": false,
                        "description": "Sort field (code,full_name,hire_date,created_at)",
                        "type": "string"
                    },
                    {
                        "name": "order",
                        "in": "query",
                        "required": false,
                        "description": "Sort order (asc/desc)",
                        "type": "string"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create teacher",
                "tags": [
                    "Teachers"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Teacher payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/teachers/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get teacher detail",
                "tags": [
                    "Teachers"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Teacher ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update teacher",
                "tags": [
                    "Teachers"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Teacher ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Teacher payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Delete teacher",
                "tags": [
                    "Teachers"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Teacher ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/teachers/{id}/availability": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Check teacher schedule availability",
                "tags": [
                    "Teachers"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Teacher ID",
                        "type": "string"
                    },
                    {
                        "name": "class_id",
                        "in": "query",
                        "required": false,
                        "description": "Probe the schedule of this class",
                        "type": "string"
                    },
                    {
                        "name": "academic_year_id",
                        "in": "query",
                        "required": false,
                        "description": "Academic year of the sessions",
                        "type": "string"
                    },
                    {
                        "name": "sessions",
                        "in": "query",
                        "required": false,
                        "description": "Comma separated day:start:count",
                        "type": "string"
                    }
                ]
            }
        },
        "/classes": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List classes",
                "tags": [
                    "Classes"
                ],
                "parameters": [
                    {
                        "name": "semester_id",
                        "in": "query",
                        "required": false,
                        "description": "Semester",
                        "type": "string"
                    },
                    {
                        "name": "academic_year_id",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "type": "string"
                    },
                    {
                        "name": "subject_id",
                        "in": "query",
                        "required": false,
                        "description": "Subject",
                        "type": "string"
                    },
                    {
                        "name": "class_type",
                        "in": "query",
                        "required": false,
                        "description": "lecture, practice, lab or seminar",
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Search by code or name",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create class",
                "tags": [
                    "Classes"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Class payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/classes/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get class with enrollment percentage",
                "tags": [
                    "Classes"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Class ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update class",
                "tags": [
                    "Classes"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Class ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Class payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "summary": "Delete class",
                "tags": [
                    "Classes"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Class ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/teaching-assignments": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List teaching assignments",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "teacher_id",
                        "in": "query",
                        "required": false,
                        "description": "Teacher",
                        "type": "string"
                    },
                    {
                        "name": "class_id",
                        "in": "query",
                        "required": false,
                        "description": "Class",
                        "type": "string"
                    },
                    {
                        "name": "semester_id",
                        "in": "query",
                        "required": false,
                        "description": "Semester",
                        "type": "string"
                    },
                    {
                        "name": "academic_year_id",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Comma separated statuses",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create teaching assignment",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Assignment payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/teaching-assignments/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get teaching assignment",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Assignment ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update teaching assignment",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Assignment ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Assignment payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Delete teaching assignment",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Assignment ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/teaching-assignments/{id}/approve": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Approve teaching assignment",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Assignment ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Approval notes",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/teaching-assignments/{id}/cancel": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Cancel teaching assignment",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Assignment ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Cancellation reason",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/teaching-assignments/{id}/status": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Change teaching assignment progress status",
                "tags": [
                    "Teaching Assignments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Assignment ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Target status",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/rate-settings": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List rate settings",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "rate_type",
                        "in": "query",
                        "required": false,
                        "description": "Rate type",
                        "type": "string"
                    },
                    {
                        "name": "scope",
                        "in": "query",
                        "required": false,
                        "description": "Applicable scope",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Lifecycle status",
                        "type": "string"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "description": "Search by code or name",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create rate setting as draft",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Rate setting payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/rate-settings/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get rate setting",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update a draft or pending rate setting",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Rate setting payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Delete rate setting",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/rate-settings/active/{rateType}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List rate settings in force today",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "rateType",
                        "in": "path",
                        "required": true,
                        "description": "Rate type",
                        "type": "string"
                    }
                ]
            }
        },
        "/rate-settings/applicable": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Preview the rates that would price an assignment",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "teacher_id",
                        "in": "query",
                        "required": true,
                        "description": "Teacher",
                        "type": "string"
                    },
                    {
                        "name": "assignment_id",
                        "in": "query",
                        "required": true,
                        "description": "Teaching assignment",
                        "type": "string"
                    },
                    {
                        "name": "at",
                        "in": "query",
                        "required": false,
                        "description": "Evaluation date (YYYY-MM-DD), defaults to today",
                        "type": "string"
                    }
                ]
            }
        },
        "/rate-settings/{id}/submit": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Submit rate setting for approval",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Expected version",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/rate-settings/{id}/approve": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Approve rate setting",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Expected version",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/rate-settings/{id}/activate": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Activate rate setting",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Expected version",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/rate-settings/{id}/deactivate": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Deactivate rate setting",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Expected version",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/rate-settings/{id}/supersede": {
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Create a draft successor of a rate setting",
                "tags": [
                    "Rate Settings"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Rate setting ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Successor payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/salaries": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List salary calculations",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "teacher_id",
                        "in": "query",
                        "required": false,
                        "description": "Teacher",
                        "type": "string"
                    },
                    {
                        "name": "academic_year_id",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "type": "string"
                    },
                    {
                        "name": "semester_id",
                        "in": "query",
                        "required": false,
                        "description": "Semester",
                        "type": "string"
                    },
                    {
                        "name": "department_id",
                        "in": "query",
                        "required": false,
                        "description": "Department",
                        "type": "string"
                    },
                    {
                        "name": "period_type",
                        "in": "query",
                        "required": false,
                        "description": "monthly, semester, academic_year or custom",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Workflow status",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "responses": {
                    "201": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Open a draft salary calculation",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Calculation payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/salaries/{id}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Get salary calculation",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    }
                ]
            },
            "put": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Update notes, deductions or overtime hours",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Update payload",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                },
                "summary": "Archive salary calculation",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    },
                    {
                        "name": "version",
                        "in": "query",
                        "required": false,
                        "description": "Expected version",
                        "type": "integer"
                    }
                ]
            }
        },
        "/salaries/{id}/calculate": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "500": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Run the salary calculation",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Expected version",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/salaries/batch-calculate": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Calculate several salaries, reporting each outcome",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Calculation IDs",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/salaries/{id}/review": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Move a calculated salary into review",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Notes and expected version",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/salaries/{id}/approve": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Approve a calculated salary",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "description": "Notes and expected version",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/salaries/{id}/mark-paid": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Record the payout of an approved salary",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Payment reference",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/salaries/{id}/audit": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "List the audit events of a calculation",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/salaries/{id}/payslip": {
            "get": {
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "summary": "Download the PDF payslip",
                "tags": [
                    "Salaries"
                ],
                "produces": [
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Calculation ID",
                        "type": "string"
                    }
                ]
            }
        },
        "/salaries/export": {
            "get": {
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "summary": "Export salary calculations as CSV",
                "tags": [
                    "Salaries"
                ],
                "produces": [
                    "text/csv"
                ],
                "parameters": [
                    {
                        "name": "academic_year_id",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "type": "string"
                    },
                    {
                        "name": "semester_id",
                        "in": "query",
                        "required": false,
                        "description": "Semester",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "Workflow status",
                        "type": "string"
                    }
                ]
            }
        },
        "/salaries/statistics": {
            "get": {
                "responses": {
                    "200": {
                        "description": "Envelope",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "summary": "Aggregate salary totals by status and optionally department",
                "tags": [
                    "Salaries"
                ],
                "parameters": [
                    {
                        "name": "academic_year_id",
                        "in": "query",
                        "required": false,
                        "description": "Academic year",
                        "type": "string"
                    },
                    {
                        "name": "semester_id",
                        "in": "query",
                        "required": false,
                        "description": "Semester",
                        "type": "string"
                    },
                    {
                        "name": "period_type",
                        "in": "query",
                        "required": false,
                        "description": "Period type",
                        "type": "string"
                    },
                    {
                        "name": "include_departments",
                        "in": "query",
                        "required": false,
                        "description": "Add the department rollup",
                        "type": "boolean"
                    }
                ]
            }
        },
        "/health": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Degraded"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Readiness probe covering Postgres and Redis",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Degraded"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "data": {
                    "type": "object"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document served under /docs.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
