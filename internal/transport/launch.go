// launch.go implements POST /api/start: the multipart form that builds a
// packbuilder.Config and an initial DraftPool, then hands both to
// ServerPool.Spawn.
package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"draftlite/internal/cardpool"
	"draftlite/internal/catalog"
	"draftlite/internal/packbuilder"
	"draftlite/internal/registry"
)

const maxUploadMemory = 10 << 20 // 10 MiB, matching the expected scale of a single draft's card list

// NewLaunchHandler serves POST /api/start against pool. baseline is the
// catalog loaded once at startup; a per-request Cockatrice XML upload, if
// present, shadows it by name.
func NewLaunchHandler(pool *registry.ServerPool, baseline *catalog.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		var userDB *catalog.Database
		if files := r.MultipartForm.File["card_database"]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if len(data) > 0 {
				db, err := catalog.DecodeCockatriceXML(data)
				if err != nil {
					respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Failed to load card database: %v", err))
					return
				}
				userDB = db
			}
		}

		cfg := packbuilder.DefaultConfig()
		list, hasList := formValue(r, "list")

		if v, ok := formValue(r, "packs"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				respondError(w, http.StatusUnprocessableEntity, "Invalid pack count: "+v)
				return
			}
			cfg.Rounds = n
		}
		if v, ok := formValue(r, "cards_per_pack"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				respondError(w, http.StatusUnprocessableEntity, "Invalid number of cards per pack: "+v)
				return
			}
			cfg.CardsPerPack = n
		}
		if v, ok := formValue(r, "unique_cards"); ok {
			b, err := checkboxValue(v)
			if err != nil {
				respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid checkbox value for unique_cards: %s", v))
				return
			}
			cfg.UniqueCards = b
		}
		if v, ok := formValue(r, "use_rarities"); ok {
			b, err := checkboxValue(v)
			if err != nil {
				respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid checkbox value for use_rarities: %s", v))
				return
			}
			cfg.UseRarities = b
		}
		if v, ok := formValue(r, "mythic_incidence"); ok {
			rate, err := catalog.ParseMythicRate(v)
			if err != nil {
				respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid mythic incidence: %s", v))
				return
			}
			cfg.MythicRate = rate
		}
		if v, ok := formValue(r, "rares"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				respondError(w, http.StatusUnprocessableEntity, "Invalid number of rares per pack: "+v)
				return
			}
			cfg.Rares = n
		}
		if v, ok := formValue(r, "uncommons"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				respondError(w, http.StatusUnprocessableEntity, "Invalid number of uncommons per pack: "+v)
				return
			}
			cfg.Uncommons = n
		}
		if v, ok := formValue(r, "commons"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				respondError(w, http.StatusUnprocessableEntity, "Invalid number of commons per pack: "+v)
				return
			}
			cfg.Commons = n
		}

		if cfg.UseRarities && cfg.Rares+cfg.Uncommons+cfg.Commons != cfg.CardsPerPack {
			respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf(
				"Count of rares (%d) + uncommons (%d) + commons (%d) does not equal cards per pack (%d).",
				cfg.Rares, cfg.Uncommons, cfg.Commons, cfg.CardsPerPack))
			return
		}
		if !hasList {
			respondError(w, http.StatusUnprocessableEntity, "No card list provided for draft.")
			return
		}

		layers := make([]*catalog.Database, 0, 2)
		if userDB != nil {
			layers = append(layers, userDB)
		}
		layers = append(layers, baseline)
		lookup := catalog.NewCachedLookup(layers...)

		draftPool := cardpool.New()
		for _, line := range strings.Split(list, "\n") {
			name := strings.TrimSpace(line)
			if name == "" {
				continue
			}
			c, ok := lookup.Lookup(name)
			if !ok {
				respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Card missing from database: %s", name))
				return
			}
			draftPool.Add(c)
		}

		id := pool.Spawn(cfg, draftPool)
		w.Header().Set("Location", "/lobby/"+id.String())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusSeeOther)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Draft launched.", "success": true})
	}
}

func formValue(r *http.Request, name string) (string, bool) {
	if r.MultipartForm != nil {
		if vals, ok := r.MultipartForm.Value[name]; ok && len(vals) > 0 {
			return vals[0], true
		}
	}
	return "", false
}

func checkboxValue(s string) (bool, error) {
	switch s {
	case "checked":
		return true, nil
	case "unchecked":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized checkbox value %q", s)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"message": message, "success": false})
}
