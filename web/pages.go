/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

//go:embed views/*.html
var viewsFS embed.FS

type page struct {
	path string
	view string
}

var pages = []page{
	{path: "/", view: "home"},
	{path: "/about", view: "about"},
	{path: "/contact", view: "contact"},
}

// loadViews parses the built-in views, or every *.html file in dir when set.
// Each page view must be defined by name.
func loadViews(dir string) (*template.Template, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if dir == "" {
		tmpl, err = template.ParseFS(viewsFS, "views/*.html")
	} else {
		tmpl, err = template.ParseGlob(filepath.Join(dir, "*.html"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse views: %w", err)
	}

	for _, p := range pages {
		if tmpl.Lookup(p.view) == nil {
			return nil, fmt.Errorf("view %q is not defined", p.view)
		}
	}
	return tmpl, nil
}

// render executes a named view without data. Execution errors are left to
// gin, which records them on the context for the access log.
func (s *Server) render(view string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, view, nil)
	}
}
