package server

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	gws "github.com/gorilla/websocket"

	"photo-gallery-app/internal/gallery"
	"photo-gallery-app/internal/models"
	"photo-gallery-app/internal/storage"
	ws "photo-gallery-app/internal/websocket"
)

const sessionName = "gallery-session"

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server wires the account store, the asset lifecycle manager and the event
// hub behind the HTTP routes.
type Server struct {
	db      *storage.DB
	gallery *gallery.Manager
	hub     *ws.Hub
	store   *sessions.CookieStore

	indexTmpl *template.Template
	loginTmpl *template.Template
}

// New builds a Server and parses the embedded templates.
func New(db *storage.DB, g *gallery.Manager, hub *ws.Hub, sessionSecret string) *Server {
	return &Server{
		db:        db,
		gallery:   g,
		hub:       hub,
		store:     sessions.NewCookieStore([]byte(sessionSecret)),
		indexTmpl: template.Must(template.New("index").Parse(indexTemplate)),
		loginTmpl: template.Must(template.New("login").Parse(loginTemplate)),
	}
}

// Router returns the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/login", s.handleLoginPage).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("GET")
	r.HandleFunc("/upload", s.handleUpload).Methods("POST")
	r.HandleFunc("/delete/{filename}", s.handleDelete).Methods("POST")
	r.HandleFunc("/uploads/{filename}", s.handleOriginal).Methods("GET")
	r.HandleFunc("/thumbnails/{filename}", s.handleThumbnail).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket)

	return r
}

// currentSession reads the cookie session into the explicit session view
// the handlers and the gallery core consume.
func (s *Server) currentSession(r *http.Request) models.Session {
	sess, _ := s.store.Get(r, sessionName)
	username, _ := sess.Values["username"].(string)
	isAdmin, _ := sess.Values["is_admin"].(bool)
	return models.Session{Username: username, IsAdmin: isAdmin}
}

func (s *Server) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	sess, _ := s.store.Get(r, sessionName)
	sess.AddFlash(kind + "|" + message)
	if err := sess.Save(r, w); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
}

func (s *Server) takeFlashes(w http.ResponseWriter, r *http.Request) []models.Notice {
	sess, _ := s.store.Get(r, sessionName)
	raw := sess.Flashes()
	if len(raw) > 0 {
		if err := sess.Save(r, w); err != nil {
			log.Printf("Failed to save session: %v", err)
		}
	}

	var notices []models.Notice
	for _, f := range raw {
		msg, ok := f.(string)
		if !ok {
			continue
		}
		notice := models.Notice{Kind: "success", Message: msg}
		for i := 0; i < len(msg); i++ {
			if msg[i] == '|' {
				notice.Kind = msg[:i]
				notice.Message = msg[i+1:]
				break
			}
		}
		notices = append(notices, notice)
	}
	return notices
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	images, err := s.gallery.ListAssets()
	if err != nil {
		log.Printf("Failed to list assets: %v", err)
		http.Error(w, "Failed to list images", http.StatusInternalServerError)
		return
	}

	sess := s.currentSession(r)
	data := map[string]interface{}{
		"Images":   images,
		"IsAdmin":  sess.IsAdmin,
		"Username": sess.Username,
		"Notices":  s.takeFlashes(w, r),
	}
	if err := s.indexTmpl.Execute(w, data); err != nil {
		log.Printf("Failed to render index: %v", err)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Notices": s.takeFlashes(w, r),
	}
	if err := s.loginTmpl.Execute(w, data); err != nil {
		log.Printf("Failed to render login: %v", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	account, err := s.db.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, storage.ErrInvalidCredentials) {
			log.Printf("Login failed for %q: %v", username, err)
		}
		// Same notice for unknown user and wrong password
		s.flash(w, r, "error", "Invalid credentials")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sess, _ := s.store.Get(r, sessionName)
	sess.Values["username"] = account.Username
	sess.Values["is_admin"] = account.IsAdmin
	sess.AddFlash("success|Login successful!")
	if err := sess.Save(r, w); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.store.Get(r, sessionName)
	delete(sess.Values, "username")
	delete(sess.Values, "is_admin")
	sess.AddFlash("success|Logged out successfully")
	if err := sess.Save(r, w); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if !sess.IsAdmin {
		s.flash(w, r, "error", "Admin access required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.flash(w, r, "error", "No file selected")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.flash(w, r, "error", "No file selected")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer file.Close()

	stored, err := s.gallery.SaveUpload(header.Filename, file, sess.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, gallery.ErrNoFile):
			s.flash(w, r, "error", "No file selected")
		case errors.Is(err, gallery.ErrInvalidType):
			s.flash(w, r, "error", "Invalid file type")
		case errors.Is(err, gallery.ErrAdminRequired):
			s.flash(w, r, "error", "Admin access required")
		default:
			log.Printf("Failed to save upload %q: %v", header.Filename, err)
			s.flash(w, r, "error", "Failed to save file")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Thumbnail failure is logged, not surfaced: the upload stands.
	if err := s.gallery.GenerateThumbnail(stored); err != nil {
		log.Printf("Error generating thumbnail for %s: %v", stored, err)
	}

	s.hub.Broadcast <- ws.NewEvent(ws.EVENT_ASSET_UPLOADED, stored)
	s.flash(w, r, "success", "File uploaded successfully")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	sess := s.currentSession(r)

	if err := s.gallery.DeleteAsset(filename, sess.IsAdmin); err != nil {
		switch {
		case errors.Is(err, gallery.ErrAdminRequired):
			s.flash(w, r, "error", "Admin access required")
		case errors.Is(err, gallery.ErrNotFound):
			s.flash(w, r, "error", "File not found")
		default:
			log.Printf("Failed to delete %q: %v", filename, err)
			s.flash(w, r, "error", "Failed to delete file")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.hub.Broadcast <- ws.NewEvent(ws.EVENT_ASSET_DELETED, filename)
	s.flash(w, r, "success", "File deleted successfully")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleOriginal(w http.ResponseWriter, r *http.Request) {
	path, err := s.gallery.OriginalPath(mux.Vars(r)["filename"])
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	path, err := s.gallery.ThumbnailPath(mux.Vars(r)["filename"])
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &ws.Client{Hub: s.hub, Conn: conn, Send: make(chan []byte, 64)}
	s.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
