// Package docs swagger 文档模板，与 controller 中的注释保持一致。
// 修改接口注释后在项目根目录执行 go generate 重新生成。
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
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "检查数据库与 redis 状态",
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/register": {
            "post": {
                "description": "注册成功后直接登录并返回会话令牌",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "注册新用户",
                "parameters": [
                    {"description": "注册信息", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SignupForm"}}
                ],
                "responses": {
                    "201": {"description": "创建成功", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "表单校验失败", "schema": {"$ref": "#/definitions/util.Response"}},
                    "409": {"description": "用户名已存在", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "验证用户名和密码并返回会话令牌",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "用户登录",
                "parameters": [
                    {"description": "登录凭据", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginForm"}}
                ],
                "responses": {
                    "200": {"description": "成功", "schema": {"$ref": "#/definitions/util.Response"}},
                    "401": {"description": "用户名或密码错误", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "注销当前会话，未提交的测验一并丢弃",
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "退出登录",
                "responses": {
                    "200": {"description": "成功", "schema": {"$ref": "#/definitions/util.Response"}},
                    "401": {"description": "未授权", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/quiz": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "随机抽取 5 道题并固定到当前会话，重复调用会替换题目",
                "produces": ["application/json"],
                "tags": ["测验"],
                "summary": "开始测验",
                "responses": {
                    "200": {"description": "available=false 表示题目不足", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "只按会话中固定的题目评分，全部作答后保存结果",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["测验"],
                "summary": "提交答案",
                "parameters": [
                    {"description": "答案", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.SubmitQuizRequest"}}
                ],
                "responses": {
                    "201": {"description": "评分结果", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "有题目未作答", "schema": {"$ref": "#/definitions/util.Response"}},
                    "409": {"description": "没有进行中的测验", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/quiz/results/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "只能查看自己的结果，其它情况一律返回 404",
                "produces": ["application/json"],
                "tags": ["测验"],
                "summary": "查看测验结果",
                "parameters": [
                    {"type": "integer", "description": "结果 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "成功", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "不存在", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/history": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "当前用户的全部测验结果（新的在前）与统计，没有记录时统计值为 null",
                "produces": ["application/json"],
                "tags": ["测验"],
                "summary": "测验历史",
                "responses": {
                    "200": {"description": "成功", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        }
    },
    "definitions": {
        "controller.SubmitQuizRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "model.LoginForm": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "model.SignupForm": {
            "type": "object",
            "required": ["email", "password1", "password2", "username"],
            "properties": {
                "email": {"type": "string"},
                "password1": {"type": "string"},
                "password2": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "French Quiz API",
	Description:      "法语词汇测验服务：注册、登录、随机抽题、评分与历史统计。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
