package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           vllmctl supervisor API
// @version         1.0
// @description     Local control API for a supervised vLLM server.
//
// @BasePath  /
//
// @schemes http
