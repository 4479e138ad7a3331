//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_search/internal/domain"
	mysqlrepo "hotel_search/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=$PWD/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no .sql files in %s (err=%v)", dir, err)
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// startMySQL runs an isolated container and returns a migrated connection.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=hotels"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotels?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_UpsertAndQuery(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	places := []domain.Place{
		{ID: 1, Name: "Salvador", State: "BA", Country: "Brasil"},
		{ID: 2, Name: "Curitiba", State: "PR", Country: "Brasil"},
	}
	for _, p := range places {
		if err := repo.UpsertPlace(ctx, p); err != nil {
			t.Fatalf("UpsertPlace: %v", err)
		}
	}

	hotels := []domain.Hotel{
		{ID: 20, Name: "Pelourinho Inn", Stars: "3", TotalPrice: 21000, DailyPrice: 10500,
			Thumb: "t20", Amenities: []string{"WI_FI"}, HasBreakFast: true, District: "Pelourinho", PlaceID: 1},
		{ID: 21, Name: "Batel Palace", Description: "Luxo", Stars: "5", TotalPrice: 88000, DailyPrice: 44000,
			Tax: 1200, Images: []string{"a", "b"}, HasRefundableRoom: true, District: "Batel", PlaceID: 2},
	}
	for _, h := range hotels {
		if err := repo.UpsertHotel(ctx, h); err != nil {
			t.Fatalf("UpsertHotel: %v", err)
		}
	}

	// upsert twice must update in place
	hotels[0].TotalPrice = 23000
	if err := repo.UpsertHotel(ctx, hotels[0]); err != nil {
		t.Fatalf("UpsertHotel again: %v", err)
	}

	all, err := repo.Hotels(ctx)
	if err != nil {
		t.Fatalf("Hotels: %v", err)
	}
	if len(all) != 2 || all[0].ID != 20 || all[0].TotalPrice != 23000 {
		t.Fatalf("unexpected hotels: %+v", all)
	}

	h, err := repo.Hotel(ctx, 21)
	if err != nil {
		t.Fatalf("Hotel: %v", err)
	}
	if h.Stars != "5" || len(h.Images) != 2 || !h.HasRefundableRoom || h.Tax != 1200 {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if h.Amenities == nil || len(h.Amenities) != 0 {
		t.Fatalf("expected empty amenities, got %#v", h.Amenities)
	}

	if _, err := repo.Hotel(ctx, 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	byPlace, err := repo.HotelsByPlace(ctx, 1)
	if err != nil || len(byPlace) != 1 || byPlace[0].Name != "Pelourinho Inn" {
		t.Fatalf("HotelsByPlace: %+v err=%v", byPlace, err)
	}

	ps, err := repo.Places(ctx)
	if err != nil || len(ps) != 2 || ps[1].State != "PR" {
		t.Fatalf("Places: %+v err=%v", ps, err)
	}
}
