// Package web serves the HTML pages around the media endpoint: the library index, the upload
// form and the player.
//
// Routes
//
//	GET  /                 → uploaded files, with an optional ?message= banner
//	GET  /upload           → upload form
//	POST /upload           → store a multipart "file" field, then redirect to its player
//	GET  /player/{name...} → <audio> element pointing at /audio/{name}
//	GET  /static/          → embedded assets
//
// Templates and assets are embedded; every page is rendered into a buffer before anything is
// written so template errors still produce a clean 500.
package web
