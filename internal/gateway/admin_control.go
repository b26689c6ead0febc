package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/danmuck/edgegate/internal/auth"
	"github.com/rs/zerolog/log"
)

// AdminStatus reports gateway runtime state over the control channel.
type AdminStatus struct {
	Name            string `json:"name"`
	Uptime          string `json:"uptime"`
	ListenAddr      string `json:"listen_addr"`
	AdminListenAddr string `json:"admin_listen_addr"`
	Upstream        string `json:"upstream"`
	FilterEnabled   bool   `json:"filter_enabled"`
	PrefixCount     int    `json:"prefix_count"`
	Reloads         int64  `json:"reloads"`
}

// AdminMatcherSnapshot exposes the active prefix list. The secret is
// never echoed back over the control channel.
type AdminMatcherSnapshot struct {
	Enabled  bool     `json:"enabled"`
	Prefixes []string `json:"prefixes"`
}

type adminControlRequest struct {
	Action string `json:"action"`
	Token  string `json:"token,omitempty"`
	Config string `json:"config,omitempty"`
}

type adminControlResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// serveAdminControl exposes a TCP JSON request/response endpoint for
// gateway control: status, matcher snapshot, and matcher reload.
func (s *Service) serveAdminControl(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", strings.TrimSpace(addr))
	if err != nil {
		return err
	}
	defer ln.Close()
	log.Info().Str("addr", ln.Addr().String()).Msg("admin_listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleAdminConn(conn)
	}
}

// handleAdminConn decodes one request per line and writes one response
// per line.
func (s *Service) handleAdminConn(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	active := s.adminClientCount.Add(1)
	log.Info().Str("remote", remote).Int64("active_clients", active).Msg("admin_client_connected")
	defer func() {
		remaining := s.adminClientCount.Add(-1)
		log.Info().Str("remote", remote).Int64("active_clients", remaining).Msg("admin_client_disconnected")
	}()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				log.Warn().Err(err).Msg("admin_read_failed")
			}
			return
		}
		var req adminControlRequest
		if err := json.Unmarshal(line, &req); err != nil {
			_ = writeAdminControlResponse(conn, adminControlResponse{OK: false, Error: err.Error()})
			continue
		}
		resp := s.handleAdminControlRequest(req)
		if err := writeAdminControlResponse(conn, resp); err != nil {
			log.Warn().Err(err).Msg("admin_write_failed")
			return
		}
	}
}

// handleAdminControlRequest routes one admin action to gateway runtime
// methods after the optional static-token gate.
func (s *Service) handleAdminControlRequest(req adminControlRequest) adminControlResponse {
	if token := strings.TrimSpace(s.cfg.AdminToken); token != "" {
		validator := auth.StaticToken{Token: token}
		if err := validator.Validate(req.Token); err != nil {
			return adminControlResponse{OK: false, Error: "unauthorized"}
		}
	}

	switch strings.TrimSpace(req.Action) {
	case "status":
		matcher := s.Matcher()
		return adminControlResponse{OK: true, Data: AdminStatus{
			Name:            s.cfg.Name,
			Uptime:          time.Since(s.appeared).String(),
			ListenAddr:      s.cfg.ListenAddr,
			AdminListenAddr: s.cfg.AdminListenAddr,
			Upstream:        s.upstream.String(),
			FilterEnabled:   matcher.Enabled(),
			PrefixCount:     len(matcher.Prefixes),
			Reloads:         s.reloadCount.Load(),
		}}
	case "matcher":
		matcher := s.Matcher()
		prefixes := make([]string, len(matcher.Prefixes))
		copy(prefixes, matcher.Prefixes)
		return adminControlResponse{OK: true, Data: AdminMatcherSnapshot{
			Enabled:  matcher.Enabled(),
			Prefixes: prefixes,
		}}
	case "reload":
		if err := s.Reload(req.Config); err != nil {
			return adminControlResponse{OK: false, Error: err.Error()}
		}
		matcher := s.Matcher()
		return adminControlResponse{OK: true, Data: AdminMatcherSnapshot{
			Enabled:  matcher.Enabled(),
			Prefixes: matcher.Prefixes,
		}}
	default:
		return adminControlResponse{OK: false, Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}
}

func writeAdminControlResponse(w io.Writer, resp adminControlResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = w.Write(payload)
	return err
}
