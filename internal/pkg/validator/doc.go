// Package validator provides the validation abstraction for request data and
// domain structs.
//
// Two entry points share one go-playground/validator v10 engine and its English
// translations: Validate checks tagged structs, Parse coerces and checks raw
// input (decoded JSON bodies, query strings, path params) against a declarative
// Schema and reports every violation as an ordered list of field errors.
package validator
