package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"battlecode-client/internal/database"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/replay"
	"battlecode-client/internal/version"
	"battlecode-client/pkg/maps"
)

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Info())
}

// abort writes a JSON error and logs server-side failures.
func (s *Server) abort(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func limit(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// readUpload returns the uploaded bytes and a name. Multipart uploads use
// the "file" field; anything else is taken as the raw body with the name
// from the "name" query parameter.
func (s *Server) readUpload(c *gin.Context) ([]byte, string, error) {
	max := s.cfg.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing file: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return data, trimExt(fh.Filename), err
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, "", err
	}
	return data, c.Query("name"), nil
}

func trimExt(name string) string {
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func uploadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// Replays

func (s *Server) handleListReplays(c *gin.Context) {
	replays, err := s.db.ListReplays(limit(c, 100))
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"replays": replays})
}

func (s *Server) handleUploadReplay(c *gin.Context) {
	data, name, err := s.readUpload(c)
	if err != nil {
		s.abort(c, uploadStatus(err), err)
		return
	}
	if name == "" {
		name = "replay"
	}

	info, _, summary, err := s.storeReplay(name, data)
	if err != nil {
		var de *replay.DecodeError
		if errors.As(err, &de) {
			s.abort(c, http.StatusUnprocessableEntity, err)
			return
		}
		s.abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"replay": info, "summary": summary})
}

// storeReplay saves data only if it decodes.
func (s *Server) storeReplay(name string, data []byte) (*database.ReplayInfo, *playback.Game, *replay.Summary, error) {
	g, err := replay.Decode(data)
	if err != nil {
		return nil, nil, nil, err
	}
	summary := replay.Summarize(g)
	encoded, err := json.Marshal(summary)
	if err != nil {
		return nil, nil, nil, err
	}
	info, err := s.db.SaveReplay(name, data, len(g.Matches()), string(encoded))
	if err != nil {
		return nil, nil, nil, err
	}
	s.log.WithField("replay", info.ID).WithField("matches", info.MatchCount).Info("replay stored")
	return info, g, &summary, nil
}

func (s *Server) handleDownloadReplay(c *gin.Context) {
	info, err := s.db.GetReplayInfo(c.Param("id"))
	if err != nil {
		s.notFoundOr500(c, err, database.ErrReplayNotFound)
		return
	}
	data, err := s.db.GetReplayData(info.ID)
	if err != nil {
		s.notFoundOr500(c, err, database.ErrReplayNotFound)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name+".bc23"))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleReplaySummary(c *gin.Context) {
	info, err := s.db.GetReplayInfo(c.Param("id"))
	if err != nil {
		s.notFoundOr500(c, err, database.ErrReplayNotFound)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(info.SummaryJSON))
}

func (s *Server) handleDeleteReplay(c *gin.Context) {
	if err := s.db.DeleteReplay(c.Param("id")); err != nil {
		s.notFoundOr500(c, err, database.ErrReplayNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) notFoundOr500(c *gin.Context, err, notFound error) {
	if errors.Is(err, notFound) {
		s.abort(c, http.StatusNotFound, err)
		return
	}
	s.abort(c, http.StatusInternalServerError, err)
}

// Maps

func (s *Server) handleListMaps(c *gin.Context) {
	stored, err := s.db.ListMaps()
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maps": stored})
}

func (s *Server) handleBuiltinMaps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"maps": maps.List()})
}

func (s *Server) handleUploadMap(c *gin.Context) {
	data, name, err := s.readUpload(c)
	if err != nil {
		s.abort(c, uploadStatus(err), err)
		return
	}
	static, _, err := maps.Import(data)
	if err != nil {
		s.abort(c, http.StatusUnprocessableEntity, err)
		return
	}
	if name == "" {
		name = static.Name()
	}
	info, err := s.db.SaveMap(name, static.Width(), static.Height(), static.Symmetry().String(), data)
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"map": info})
}

func (s *Server) handleDownloadMap(c *gin.Context) {
	info, data, err := s.db.GetMap(c.Param("id"))
	if err != nil {
		s.notFoundOr500(c, err, database.ErrMapNotFound)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name+".map23"))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleDeleteMap(c *gin.Context) {
	if err := s.db.DeleteMap(c.Param("id")); err != nil {
		s.notFoundOr500(c, err, database.ErrMapNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
