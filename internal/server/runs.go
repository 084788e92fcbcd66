package server

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"battlecode-client/internal/database"
	"battlecode-client/internal/protocol"
	"battlecode-client/internal/runner"
)

func (s *Server) handleListRuns(c *gin.Context) {
	runs, err := s.db.ListRuns(limit(c, 50))
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.db.GetRun(c.Param("id"))
	if err != nil {
		s.notFoundOr500(c, err, database.ErrRunNotFound)
		return
	}
	after, _ := strconv.ParseInt(c.Query("after"), 10, 64)
	events, err := s.db.GetRunEvents(run.ID, after)
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "events": events})
}

func (s *Server) handleCreateRun(c *gin.Context) {
	var req runner.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abort(c, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.abort(c, http.StatusBadRequest, err)
		return
	}
	if s.runner == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "match runner is not configured"})
		return
	}

	run, err := s.db.CreateRun(req.TeamA, req.TeamB, req.Maps, req.Profile)
	if err != nil {
		s.abort(c, http.StatusInternalServerError, err)
		return
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		s.execute(run.ID, req)
	}()
	c.JSON(http.StatusAccepted, gin.H{"run": run})
}

// execute plays a run to completion. Output lines and status changes are
// recorded and broadcast; a finished replay is stored and streamed to
// live viewers.
func (s *Server) execute(id string, req runner.Request) {
	log := s.log.WithFields(logrus.Fields{"run": id, "team_a": req.TeamA, "team_b": req.TeamB})
	s.setStatus(log, id, database.RunRunning, "", "")

	path, err := s.runner.Run(s.ctx, req, func(line string) {
		if err := s.db.AddRunEvent(id, database.EventOutput, line); err != nil {
			log.WithError(err).Warn("failed to record output")
		}
		if f, err := textFrame(protocol.TypeRunOutput, protocol.RunOutputPayload{RunID: id, Line: line}); err == nil {
			s.hub.Broadcast(f)
		}
	})
	if err != nil {
		s.setStatus(log, id, database.RunFailed, "", err.Error())
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.setStatus(log, id, database.RunFailed, "", err.Error())
		return
	}
	info, g, summary, err := s.storeReplay(trimExt(path), data)
	if err != nil {
		s.setStatus(log, id, database.RunFailed, "", err.Error())
		return
	}
	s.setStatus(log, id, database.RunFinished, info.ID, "")

	frames, err := streamFrames(info.ID, info.Name, g, summary)
	if err != nil {
		log.WithError(err).Error("failed to encode replay for live viewers")
		return
	}
	s.hub.Broadcast(frames...)
}

func (s *Server) setStatus(log *logrus.Entry, id string, status database.RunStatus, replayID, errMsg string) {
	if err := s.db.UpdateRunStatus(id, status, replayID, errMsg); err != nil {
		log.WithError(err).Error("failed to update run status")
	}
	entry := log.WithField("status", status)
	if errMsg != "" {
		entry.WithField("error", errMsg).Warn("run failed")
	} else {
		entry.Info("run status changed")
	}

	f, err := textFrame(protocol.TypeRunStatus, protocol.RunStatusPayload{
		RunID:    id,
		Status:   string(status),
		ReplayID: replayID,
		Error:    errMsg,
	})
	if err == nil {
		s.hub.Broadcast(f)
	}
}
