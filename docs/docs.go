// Package docs holds the OpenAPI description served at /api/swagger.
//
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
                "description": "Authenticate user and return JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.credentials"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.tokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Revokes the caller's token",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User logout",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "description": "Register a new user account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User signup",
                "parameters": [
                    {
                        "description": "Signup request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.credentials"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/server.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/follow": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Posts by every author the caller follows",
                "produces": ["application/json"],
                "tags": ["follow"],
                "summary": "Followed authors feed",
                "parameters": [
                    {"type": "string", "description": "Page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.PostPage"}},
                    "302": {"description": "Redirect to login"}
                }
            }
        },
        "/groups": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "List groups",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Group"}}
                    }
                }
            }
        },
        "/groups/{slug}": {
            "get": {
                "description": "A group and one page of its posts",
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Group feed",
                "parameters": [
                    {"type": "string", "description": "Group slug", "name": "slug", "in": "path", "required": true},
                    {"type": "string", "description": "Page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.GroupFeed"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "description": "All posts, newest first, one page at a time",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Home feed",
                "parameters": [
                    {"type": "string", "description": "Page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.PostPage"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Publishes a post as the caller. Accepts JSON or multipart form data with an optional image file.",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create post",
                "parameters": [
                    {
                        "description": "Post",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.postRequest"}
                    }
                ],
                "responses": {
                    "303": {"description": "Location points to the author's profile", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "302": {"description": "Redirect to login"}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "description": "A post with its comments, newest first",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Post detail",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.PostDetail"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Changes text and/or group of the caller's own post. Other users are redirected to the unchanged post.",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Edit post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Changes",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.postRequest"}
                    }
                ],
                "responses": {
                    "303": {"description": "Location points to the post", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}/comments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Add comment",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Comment",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.commentRequest"}
                    }
                ],
                "responses": {
                    "303": {"description": "Location points to the post", "schema": {"$ref": "#/definitions/models.Comment"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/profile/{username}": {
            "get": {
                "description": "An author, their posts, and whether the caller follows them",
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Profile feed",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"type": "string", "description": "Page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ProfileFeed"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/profile/{username}/follow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Following yourself or an author you already follow changes nothing.",
                "produces": ["application/json"],
                "tags": ["follow"],
                "summary": "Follow author",
                "parameters": [
                    {"type": "string", "description": "Author username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "303": {"description": "Location points to the profile"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/profile/{username}/unfollow": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["follow"],
                "summary": "Unfollow author",
                "parameters": [
                    {"type": "string", "description": "Author username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "303": {"description": "Location points to the profile"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "post_id": {"type": "integer"},
                "author_id": {"type": "integer"},
                "author": {"$ref": "#/definitions/models.User"},
                "text": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "details": {"type": "string"}
            }
        },
        "models.Group": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "text": {"type": "string"},
                "created_at": {"type": "string"},
                "author_id": {"type": "integer"},
                "author": {"$ref": "#/definitions/models.User"},
                "group_id": {"type": "integer"},
                "group": {"$ref": "#/definitions/models.Group"},
                "image": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "server.commentRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "server.credentials": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "server.postRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "group": {"type": "integer"}
            }
        },
        "server.tokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "service.GroupFeed": {
            "type": "object",
            "properties": {
                "group": {"$ref": "#/definitions/models.Group"},
                "page": {"$ref": "#/definitions/service.PostPage"}
            }
        },
        "service.PostDetail": {
            "type": "object",
            "properties": {
                "post": {"$ref": "#/definitions/models.Post"},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}},
                "author_post_count": {"type": "integer"}
            }
        },
        "service.PostPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}},
                "number": {"type": "integer"},
                "num_pages": {"type": "integer"},
                "total": {"type": "integer"},
                "page_size": {"type": "integer"},
                "has_previous": {"type": "boolean"},
                "has_next": {"type": "boolean"},
                "previous_page": {"type": "integer"},
                "next_page": {"type": "integer"}
            }
        },
        "service.ProfileFeed": {
            "type": "object",
            "properties": {
                "author": {"$ref": "#/definitions/models.User"},
                "post_count": {"type": "integer"},
                "following": {"type": "boolean"},
                "page": {"$ref": "#/definitions/service.PostPage"}
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
	Title:            "Scribe API",
	Description:      "Posts, groups, comments and author follows.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
