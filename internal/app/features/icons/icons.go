// Package icons provides the admin gallery for design icon assets: upload,
// metadata editing, deletion, and reconciliation against object storage.
package icons

import (
	"net/http"
	"path"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/JamesMorphed/immersive-agency-sub000/internal/app/features/errors"
	iconstore "github.com/JamesMorphed/immersive-agency-sub000/internal/app/store/icon"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/blobstore"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/viewdata"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

const maxUploadSize = 8 << 20

// storagePrefix is where icon binaries live in the blob store.
const storagePrefix = "icons/"

// Handler provides icon catalog handlers.
type Handler struct {
	iconStore *iconstore.Store
	blobs     blobstore.Store
	errLog    *errorsfeature.ErrorLogger
	logger    *zap.Logger
}

// NewHandler creates a new icons Handler.
func NewHandler(db *mongo.Database, blobs blobstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		iconStore: iconstore.New(db),
		blobs:     blobs,
		errLog:    errLog,
		logger:    logger,
	}
}

// Routes returns a chi.Router with icon routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRole("admin"))

	r.Get("/", h.gallery)
	r.Post("/upload", h.upload)
	r.Post("/sync", h.sync)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}", h.updateMetadata)
	r.Post("/{id}/delete", h.delete)

	return r
}

// iconRow represents one icon in the gallery.
type iconRow struct {
	ID          string
	Name        string
	PublicURL   string
	Description string
	Tags        string
}

// folderGroup is one folder section of the gallery.
type folderGroup struct {
	Folder string
	Icons  []iconRow
}

// GalleryVM is the view model for the icon gallery.
type GalleryVM struct {
	viewdata.BaseVM
	Groups  []folderGroup
	Folders []string
	Success string
	Error   string
}

func (h *Handler) gallery(w http.ResponseWriter, r *http.Request) {
	icons, err := h.iconStore.ListAll(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list icons", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// ListAll sorts by (folder, name); group in one pass.
	var groups []folderGroup
	for _, icon := range icons {
		if len(groups) == 0 || groups[len(groups)-1].Folder != icon.Folder {
			groups = append(groups, folderGroup{Folder: icon.Folder})
		}
		g := &groups[len(groups)-1]
		g.Icons = append(g.Icons, iconRow{
			ID:          icon.ID.Hex(),
			Name:        icon.Name,
			PublicURL:   icon.PublicURL,
			Description: icon.Description,
			Tags:        strings.Join(icon.Tags, ", "),
		})
	}

	vm := GalleryVM{
		BaseVM:  viewdata.New(r),
		Groups:  groups,
		Folders: models.AllIconFolders(),
	}
	vm.Title = "Icons"

	switch r.URL.Query().Get("success") {
	case "uploaded":
		vm.Success = "Icon uploaded"
	case "synced":
		vm.Success = "Catalog synchronized with storage"
	case "updated":
		vm.Success = "Icon updated"
	case "deleted":
		vm.Success = "Icon deleted"
	}
	switch r.URL.Query().Get("error") {
	case "upload_failed":
		vm.Error = "Failed to upload icon"
	case "sync_failed":
		vm.Error = "Failed to synchronize catalog"
	case "update_failed":
		vm.Error = "Failed to update icon"
	case "delete_failed":
		vm.Error = "Failed to delete icon"
	case "bad_folder":
		vm.Error = "Unknown icon folder"
	case "duplicate_file":
		vm.Error = "An icon with that file name already exists in the folder"
	}

	templates.Render(w, r, "icons/gallery", vm)
}

// upload stores the binary first, then inserts the catalog record. If the
// insert fails the stored object is removed again so storage and catalog
// stay consistent.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Redirect(w, r, "/admin/icons?error=upload_failed", http.StatusSeeOther)
		return
	}

	folder := strings.TrimSpace(r.FormValue("folder"))
	if !models.IsValidIconFolder(folder) {
		http.Redirect(w, r, "/admin/icons?error=bad_folder", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Redirect(w, r, "/admin/icons?error=upload_failed", http.StatusSeeOther)
		return
	}
	defer file.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = iconName(header.Filename)
	}

	filePath := storagePrefix + folder + "/" + path.Base(header.Filename)
	contentType := header.Header.Get("Content-Type")

	// A reused file name would overwrite the existing binary while its
	// record kept pointing at the same path. Reject instead.
	taken, err := h.iconStore.ExistsByPath(ctx, filePath)
	if err != nil {
		h.errLog.Log(r, "failed to check icon path", err)
		http.Redirect(w, r, "/admin/icons?error=upload_failed", http.StatusSeeOther)
		return
	}
	if taken {
		http.Redirect(w, r, "/admin/icons?error=duplicate_file", http.StatusSeeOther)
		return
	}

	opts := &blobstore.PutOptions{ContentType: contentType}
	if err := h.blobs.Put(ctx, filePath, file, opts); err != nil {
		h.errLog.Log(r, "failed to store icon binary", err)
		http.Redirect(w, r, "/admin/icons?error=upload_failed", http.StatusSeeOther)
		return
	}

	_, err = h.iconStore.Create(ctx, iconstore.CreateInput{
		Name:        name,
		Folder:      folder,
		FilePath:    filePath,
		PublicURL:   h.blobs.URL(filePath),
		Description: strings.TrimSpace(r.FormValue("description")),
		Tags:        splitTags(r.FormValue("tags")),
		ContentType: contentType,
		FileSize:    header.Size,
	})
	if err != nil {
		h.errLog.Log(r, "failed to insert icon record", err)
		if delErr := h.blobs.Delete(ctx, filePath); delErr != nil {
			h.logger.Warn("failed to remove orphaned icon binary",
				zap.String("path", filePath), zap.Error(delErr))
		}
		http.Redirect(w, r, "/admin/icons?error=upload_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/icons?success=uploaded", http.StatusSeeOther)
}

// sync reconciles the catalog from the storage listing. Storage is the
// source of truth: files missing a record get one, records whose file is
// gone are removed. Running it twice inserts nothing the second time.
func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	objects, err := h.blobs.List(ctx, storagePrefix)
	if err != nil {
		h.errLog.Log(r, "failed to list icon storage", err)
		http.Redirect(w, r, "/admin/icons?error=sync_failed", http.StatusSeeOther)
		return
	}

	known, err := h.iconStore.PathSet(ctx)
	if err != nil {
		h.errLog.Log(r, "failed to load icon catalog paths", err)
		http.Redirect(w, r, "/admin/icons?error=sync_failed", http.StatusSeeOther)
		return
	}

	stored := make(map[string]struct{}, len(objects))
	var added int
	for _, obj := range objects {
		folder, name, ok := parseIconPath(obj.Path)
		if !ok {
			continue
		}
		stored[obj.Path] = struct{}{}

		if _, exists := known[obj.Path]; !exists {
			added++
		}
		err := h.iconStore.Upsert(ctx, iconstore.CreateInput{
			Name:        name,
			Folder:      folder,
			FilePath:    obj.Path,
			PublicURL:   h.blobs.URL(obj.Path),
			ContentType: obj.ContentType,
			FileSize:    obj.Size,
		})
		if err != nil {
			h.errLog.Log(r, "failed to upsert icon record", err)
			http.Redirect(w, r, "/admin/icons?error=sync_failed", http.StatusSeeOther)
			return
		}
	}

	var removed int
	for knownPath := range known {
		if _, ok := stored[knownPath]; ok {
			continue
		}
		if err := h.iconStore.DeleteByPath(ctx, knownPath); err != nil {
			h.errLog.Log(r, "failed to remove stale icon record", err)
			http.Redirect(w, r, "/admin/icons?error=sync_failed", http.StatusSeeOther)
			return
		}
		removed++
	}

	h.logger.Info("icon catalog synchronized",
		zap.Int("storage_objects", len(stored)),
		zap.Int("added", added),
		zap.Int("removed", removed))

	http.Redirect(w, r, "/admin/icons?success=synced", http.StatusSeeOther)
}

// EditVM is the view model for the icon metadata form.
type EditVM struct {
	viewdata.BaseVM
	ID          string
	Name        string
	Folder      string
	PublicURL   string
	Description string
	Tags        string
	Error       string
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	icon, err := h.iconStore.GetByID(r.Context(), objID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	vm := EditVM{
		BaseVM:      viewdata.New(r),
		ID:          icon.ID.Hex(),
		Name:        icon.Name,
		Folder:      icon.Folder,
		PublicURL:   icon.PublicURL,
		Description: icon.Description,
		Tags:        strings.Join(icon.Tags, ", "),
	}
	vm.Title = "Edit Icon"
	vm.BackURL = "/admin/icons"
	templates.Render(w, r, "icons/edit", vm)
}

func (h *Handler) updateMetadata(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	description := strings.TrimSpace(r.FormValue("description"))
	tags := splitTags(r.FormValue("tags"))

	if err := h.iconStore.UpdateMetadata(r.Context(), objID, description, tags); err != nil {
		h.errLog.Log(r, "failed to update icon metadata", err)
		http.Redirect(w, r, "/admin/icons?error=update_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/icons?success=updated", http.StatusSeeOther)
}

// delete removes the storage object first, then the catalog record.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	objID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	icon, err := h.iconStore.GetByID(ctx, objID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.blobs.Delete(ctx, icon.FilePath); err != nil {
		h.errLog.Log(r, "failed to delete icon binary", err)
		http.Redirect(w, r, "/admin/icons?error=delete_failed", http.StatusSeeOther)
		return
	}

	if err := h.iconStore.Delete(ctx, objID); err != nil {
		h.errLog.Log(r, "failed to delete icon record", err)
		http.Redirect(w, r, "/admin/icons?error=delete_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/icons?success=deleted", http.StatusSeeOther)
}

// parseIconPath splits "icons/<folder>/<file>" into folder and display
// name. Paths outside the known folders are ignored by sync.
func parseIconPath(p string) (folder, name string, ok bool) {
	rest, found := strings.CutPrefix(p, storagePrefix)
	if !found {
		return "", "", false
	}
	folder, file, found := strings.Cut(rest, "/")
	if !found || file == "" || strings.Contains(file, "/") {
		return "", "", false
	}
	if !models.IsValidIconFolder(folder) {
		return "", "", false
	}
	return folder, iconName(file), true
}

// iconName derives a display name from a filename: extension stripped,
// separators spaced out.
func iconName(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}

func splitTags(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
