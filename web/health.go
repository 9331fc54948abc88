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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/brochure/database"
	"github.com/tomoncle/brochure/types"
)

// probe runs one liveness query per request. The request context is the
// only bound besides the manager's probe timeout; failures are not retried.
func (s *Server) probe(kind types.ProbeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.DB.Ping(c.Request.Context()); err != nil {
			s.Logger.WithFields(logrus.Fields{
				"probe":         kind.Name(),
				"cause":         database.Classify(err).String(),
				logrus.ErrorKey: err,
			}).Warn("database probe failed")
			c.JSON(http.StatusInternalServerError, types.Unhealthy(kind, err))
			return
		}
		c.JSON(http.StatusOK, types.Healthy(kind))
	}
}
