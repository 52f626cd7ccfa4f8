// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the JSON contract of /api/auth and
// /api/tarefas onto the account and task services, translating service
// errors into status codes and Portuguese client messages.
package api
