// Package output turns a [dashboard.View] into bytes and puts them
// somewhere.
//
// A [Registry] maps format names (html, json, yaml, markdown, text) and
// file extensions to encoders; the CLI resolves --format and --output
// through it and the server resolves ?format= the same way. Encoded
// dashboards go to a [Writer]: a [StreamWriter] for stdout or a
// [FileWriter], which replaces files atomically so watch mode can rewrite
// a page that is open in a browser.
package output
