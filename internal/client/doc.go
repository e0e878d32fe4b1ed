// Package client is the JSON transport used by the sellerdesk CLI. It
// resolves named routes against a base URL, keeps the session cookie and CSRF
// token between invocations and turns error responses into *apperrors.Error
// values carrying the server's message.
package client
