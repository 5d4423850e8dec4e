package main

// General API documentation for swaggo. Run `swag init -g cmd/speechd/docs.go -o docs` to regenerate.
//
// @title           speechd API
// @version         1.0
// @description     HTTP API for speech model lifecycle management, admission control and transcription.
//
// @contact.name   speechd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
