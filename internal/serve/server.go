package serve

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidemark/internal/domain/config"
	"tidemark/internal/domain/content"
	domainerr "tidemark/internal/domain/errors"
	"tidemark/internal/index"
	"tidemark/internal/ingest"
	"tidemark/internal/render"
)

type Server struct {
	cfg config.Config

	indexPath string
	idx       *index.Store
	tpl       render.Renderer

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, indexPath string, themeDir, themeName string) (*Server, error) {
	tpl, err := render.NewTemplateRenderer(themeDir, themeName)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: indexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	return &Server{
		cfg:       cfg,
		indexPath: indexPath,
		idx:       st,
		tpl:       tpl,
		sseConns:  make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(ctx); err != nil {
		return err
	}

	if err := s.startWatch(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/tag/", s.handleGroup(content.KindTag, "/tag/"))
	mux.HandleFunc("/archive/", s.handleGroup(content.KindArchive, "/archive/"))
	mux.HandleFunc("/author/", s.handleGroup(content.KindAuthor, "/author/"))

	// dev SSE
	mux.HandleFunc("/dev/events", s.handleSSE)

	staticDir := filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme, "static")
	fileServer := http.FileServer(http.Dir(staticDir))

	mux.Handle("/css/", fileServer)
	mux.Handle("/js/", fileServer)
	mux.Handle("/images/", fileServer)
	mux.Handle("/favicon.ico", fileServer)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[serve] listening on %s", addr)
	return srv.ListenAndServe()
}

// rebuild 走一遍完整的提取流程，结果写进索引。
// dev 模式也放行草稿，方便预览。
func (s *Server) rebuild(ctx context.Context) error {
	sourceDir := s.cfg.Build.SourceDir
	log.Printf("[serve] ingest from %s ...", sourceDir)
	contents, warns, err := ingest.Ingest(ctx, sourceDir, ingest.Options{IncludeDraft: true})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		log.Printf("[warn] %s: %s", w.Path, w.Msg)
	}
	log.Printf("[serve] ingested %d documents", len(contents))

	if err := content.CheckDuplicateSlugs(contents); err != nil {
		return err
	}

	lib := content.NewLibrary(contents)
	lib.PopulateBackLinks()

	if err := s.idx.Rebuild(contents); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	log.Printf("[serve] rebuild complete")
	s.broadcastSSE("reload")

	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.Walk(s.cfg.Build.SourceDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	log.Printf("[serve] watching for file changes ...")
	debounce := newRebuildDebouncer()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Trigger(200 * time.Millisecond)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C():
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.rebuild(ctx2); err != nil {
				log.Printf("[serve] rebuild error: %v", err)
			}
			cancel()
		}
	}
}

// rebuildDebouncer 把一阵密集的文件事件压成一次重建信号。
// 底层是单发的 time.Timer：触发一次只会响一次，响过之后
// 除非再 Trigger，否则保持安静。
type rebuildDebouncer struct {
	timer *time.Timer
}

func newRebuildDebouncer() *rebuildDebouncer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return &rebuildDebouncer{timer: t}
}

// Trigger 重新开始计时；计时未到又来事件时从头再等。
func (d *rebuildDebouncer) Trigger(delay time.Duration) {
	if !d.timer.Stop() {
		select {
		case <-d.timer.C:
		default:
		}
	}
	d.timer.Reset(delay)
}

func (d *rebuildDebouncer) C() <-chan time.Time {
	return d.timer.C
}

func (d *rebuildDebouncer) Stop() {
	d.timer.Stop()
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

// handleRoot 同时承担首页和文章详情：
// "/" 是默认 stream 的首页，其余路径当作 slug 查。
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		s.renderStream(w, r, "index")
		return
	}

	slug := strings.Trim(r.URL.Path, "/")
	if slug == "" || strings.Contains(slug, "/") {
		s.handleNotFound(w, r)
		return
	}

	c, err := s.idx.Get(slug)
	if err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			// 可能是某个 stream 的首页
			s.renderStream(w, r, slug)
			return
		}
		http.Error(w, "lookup error", http.StatusInternalServerError)
		return
	}

	backLinks := make([]*content.Content, 0, len(c.BackLinks))
	for _, blSlug := range c.BackLinks {
		if bl, err := s.idx.Get(blSlug); err == nil {
			backLinks = append(backLinks, bl)
		}
	}

	pp := render.PostPage{
		Site:      s.cfg.Site,
		Content:   c,
		HTML:      template.HTML(c.HTML),
		TOC:       c.Headings,
		BackLinks: backLinks,
		PageTitle: c.Title,
	}
	htmlBytes, err := s.tpl.RenderPost(r.Context(), pp)
	if err != nil {
		log.Printf("render post error: %v", err)
		http.Error(w, "render post error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) renderStream(w http.ResponseWriter, r *http.Request, stream string) {
	items, err := s.idx.ListByGroup(content.KindStream, stream, index.ListOptions{
		Page: 1,
		Size: 1000,
	})
	if err != nil {
		http.Error(w, "stream query error", http.StatusInternalServerError)
		return
	}
	if len(items) == 0 && stream != "index" {
		s.handleNotFound(w, r)
		return
	}

	page := render.StreamPage{
		Site:      s.cfg.Site,
		Stream:    stream,
		Items:     items,
		Generated: time.Now(),
		PageTitle: s.cfg.Site.Title,
	}
	htmlBytes, err := s.tpl.RenderStream(r.Context(), page)
	if err != nil {
		log.Printf("render stream error: %v", err)
		http.Error(w, "render stream error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

// handleGroup 处理 /<prefix>/ 总览和 /<prefix>/<key>/ 列表页。
func (s *Server) handleGroup(kind content.Kind, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")

		if key == "" {
			s.renderOverview(w, r, kind)
			return
		}

		items, err := s.idx.ListByGroup(kind, key, index.ListOptions{
			Page: 1,
			Size: 1000,
		})
		if err != nil {
			http.Error(w, "group query error", http.StatusInternalServerError)
			return
		}
		if len(items) == 0 {
			s.handleNotFound(w, r)
			return
		}

		gp := render.GroupPage{
			Site:      s.cfg.Site,
			Kind:      kind,
			Key:       key,
			Items:     items,
			Count:     len(items),
			Generated: time.Now(),
			PageTitle: fmt.Sprintf("%s: %s", kind, key),
		}
		htmlBytes, err := s.tpl.RenderGroup(r.Context(), gp)
		if err != nil {
			log.Printf("render group error: %v", err)
			http.Error(w, "render group error", http.StatusInternalServerError)
			return
		}
		writeHTML(w, htmlBytes)
	}
}

func (s *Server) renderOverview(w http.ResponseWriter, r *http.Request, kind content.Kind) {
	stats, err := s.idx.GroupStats(kind)
	if err != nil {
		http.Error(w, "overview query error", http.StatusInternalServerError)
		return
	}
	sortStats(kind, stats)

	viewStats := make([]render.GroupStat, 0, len(stats))
	for _, st := range stats {
		viewStats = append(viewStats, render.GroupStat{Key: st.Key, Count: st.Count})
	}

	op := render.OverviewPage{
		Site:      s.cfg.Site,
		Kind:      kind,
		Groups:    viewStats,
		Total:     len(viewStats),
		PageTitle: string(kind),
	}
	htmlBytes, err := s.tpl.RenderOverview(r.Context(), op)
	if err != nil {
		log.Printf("render overview error: %v", err)
		http.Error(w, "render overview error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

// sortStats 的顺序和 GroupedContent.Iterate 保持一致。
func sortStats(kind content.Kind, stats []index.GroupStat) {
	switch kind {
	case content.KindTag:
		sort.SliceStable(stats, func(i, j int) bool {
			if stats[i].Count != stats[j].Count {
				return stats[i].Count > stats[j].Count
			}
			return stats[i].Key < stats[j].Key
		})
	case content.KindArchive:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Key > stats[j].Key
		})
	default:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Key < stats[j].Key
		})
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := render.NotFoundPage{
		Site:      s.cfg.Site,
		Path:      r.URL.Path,
		PageTitle: "404",
	}
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), page)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
