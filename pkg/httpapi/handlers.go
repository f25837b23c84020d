package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
)

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.store.Search(r.URL.Query().Get("q"))
	if category := r.URL.Query().Get("category"); category != "" {
		inCategory := make(map[int]bool)
		for _, doc := range s.store.ByCategory(category) {
			inCategory[doc.ID] = true
		}
		filtered := docs[:0:0]
		for _, doc := range docs {
			if inCategory[doc.ID] {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	}
	out := make([]DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, summarize(doc))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) documentID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a document id", errInvalidID, raw)
	}
	return id, nil
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := s.documentID(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	doc, err := s.store.Get(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.documentID(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var req CreateSessionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	doc, err := s.store.Get(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	policy := s.policy
	if req.Policy != "" {
		policy = orchestrator.ParsePolicy(req.Policy)
	}

	sess, err := s.sessions.Create(doc.ID, func(sid uuid.UUID) (*orchestrator.Wizard, error) {
		opts := []orchestrator.Option{
			orchestrator.WithValidationPolicy(policy),
			orchestrator.WithDictionary(s.dict),
			orchestrator.WithLogger(s.logger.WithField("session", sid.String())),
			orchestrator.WithGenerator(s.generator),
			orchestrator.WithGeneratorRegistry(s.generators),
			orchestrator.WithCancelHandler(func() { s.sessions.Remove(sid) }),
		}
		if req.Normalize != nil && !*req.Normalize {
			opts = append(opts, orchestrator.WithoutNormalization())
		}
		if len(req.Answers) > 0 {
			opts = append(opts, orchestrator.WithAnswers(answers.New(req.Answers)))
		}
		opts = append(opts, s.wizardOptions...)
		return orchestrator.New(doc, opts...)
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.logger.WithFields(logrus.Fields{"session": sess.ID.String(), "document": doc.ID}).Info("session created")

	var resp SessionResponse
	_ = sess.Do(func(wz *orchestrator.Wizard) error {
		resp = sessionResponse(sess, wz)
		return nil
	})
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) session(r *http.Request) (*Session, error) {
	id, err := parseUUID(r, "sid")
	if err != nil {
		return nil, err
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	return sess, nil
}

func sessionResponse(sess *Session, w *orchestrator.Wizard) SessionResponse {
	return SessionResponse{
		ID:         sess.ID.String(),
		DocumentID: sess.DocumentID,
		Step:       w.View(),
		History:    w.History(),
		Answers:    w.Answers().Map(),
		Done:       w.Done(),
		Delivered:  w.Delivered(),
		Policy:     w.Policy().String(),
	}
}

// mutate decodes req, runs fn under the session lock and answers with the
// session state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, req any, fn func(wz *orchestrator.Wizard) error) {
	sess, err := s.session(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if req != nil {
		if err := s.decode(r, req); err != nil {
			s.writeFailure(w, err)
			return
		}
	}
	var resp SessionResponse
	err = sess.Do(func(wz *orchestrator.Wizard) error {
		if err := fn(wz); err != nil {
			return err
		}
		resp = sessionResponse(sess, wz)
		return nil
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, nil, func(*orchestrator.Wizard) error { return nil })
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	_ = sess.Do(func(wz *orchestrator.Wizard) error {
		wz.Cancel()
		return nil
	})
	s.sessions.Remove(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) commitAnswers(w http.ResponseWriter, r *http.Request) {
	var req AnswersRequest
	s.mutate(w, r, &req, func(wz *orchestrator.Wizard) error {
		delta := make(answers.Delta, 0, len(req.Values)+len(req.Clear))
		for _, path := range setOrder(req.Values) {
			delta = append(delta, answers.SetOp(path, req.Values[path]))
		}
		for _, path := range req.Clear {
			delta = append(delta, answers.ClearOp(path))
		}
		return wz.Commit(delta)
	})
}

// setOrder sorts paths shortest first so a container is written before the
// paths nested in it.
func setOrder(values map[string]any) []string {
	paths := make([]string, 0, len(values))
	for path := range values {
		paths = append(paths, path)
	}
	slices.SortFunc(paths, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
	return paths
}

func (s *Server) next(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var resp NextResponse
	err = sess.Do(func(wz *orchestrator.Wizard) error {
		res, err := wz.Advance(r.Context())
		if err != nil {
			if errors.Is(err, orchestrator.ErrCancelled) || r.Context().Err() != nil {
				return err
			}
			return fmt.Errorf("%w: %v", errGeneration, err)
		}
		resp = NextResponse{Result: res, Session: sessionResponse(sess, wz)}
		return nil
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var resp BackResponse
	_ = sess.Do(func(wz *orchestrator.Wizard) error {
		resp.Moved = wz.Back()
		if wz.Cancelled() {
			resp.Cancelled = true
			return nil
		}
		view := sessionResponse(sess, wz)
		resp.Session = &view
		return nil
	})
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) selectMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	s.mutate(w, r, &req, func(wz *orchestrator.Wizard) error {
		mode, err := inputmode.ParseMode(req.Mode)
		if err != nil {
			return err
		}
		return wz.SelectMode(req.Step, mode)
	})
}

func (s *Server) resetMode(w http.ResponseWriter, r *http.Request) {
	var req StepRequest
	s.mutate(w, r, &req, func(wz *orchestrator.Wizard) error {
		return wz.ResetMode(req.Step)
	})
}

func (s *Server) addElement(w http.ResponseWriter, r *http.Request) {
	var req StepRequest
	s.mutate(w, r, &req, func(wz *orchestrator.Wizard) error {
		return wz.AddElement(req.Step)
	})
}

func (s *Server) removeElement(w http.ResponseWriter, r *http.Request) {
	var req RemoveRequest
	s.mutate(w, r, &req, func(wz *orchestrator.Wizard) error {
		return wz.RemoveElement(req.Step, *req.Index)
	})
}

func (s *Server) attach(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var req AttachRequest
	if err := s.decode(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	var resp AttachResponse
	err = sess.Do(func(wz *orchestrator.Wizard) error {
		for i := range req.Files {
			if req.Files[i].Source == "" {
				req.Files[i].Source = inputmode.SourceSelect
			}
			if _, err := inputmode.ParseSource(string(req.Files[i].Source)); err != nil {
				return fmt.Errorf("%w: %v", orchestrator.ErrRejected, err)
			}
		}
		accepted, err := wz.Attach(req.Step, req.Index, req.Files...)
		if err != nil {
			return err
		}
		resp = AttachResponse{Accepted: accepted, Session: sessionResponse(sess, wz)}
		return nil
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) detach(w http.ResponseWriter, r *http.Request) {
	var req DetachRequest
	s.mutate(w, r, &req, func(wz *orchestrator.Wizard) error {
		return wz.Detach(req.Step, req.Index, *req.File)
	})
}

func (s *Server) renderPreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	var resp PreviewResponse
	err = sess.Do(func(wz *orchestrator.Wizard) error {
		if s.preview == nil {
			resp.Summary = wz.Summary(nil)
			return nil
		}
		text, err := wz.Preview(s.preview)
		if err != nil {
			return err
		}
		resp.Text = text
		resp.Summary = wz.Summary(s.preview.Summarizer())
		return nil
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
