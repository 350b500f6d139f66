package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a mux with the site registered", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		serve := func(method, path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, path, nil))
			return w
		}

		Convey("Then / serves the landing page", func() {
			w := serve(http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, `href="/api-docs"`)
		})

		Convey("Then the stylesheet is served under /static", func() {
			w := serve(http.MethodGet, "/static/site.css")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
		})

		Convey("Then other paths are left to other handlers", func() {
			So(serve(http.MethodGet, "/nope").Code, ShouldEqual, http.StatusNotFound)
			So(serve(http.MethodGet, "/static/missing.js").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then non-GET methods are rejected", func() {
			So(serve(http.MethodPost, "/").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}
