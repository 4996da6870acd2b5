package scan_repo_test

import (
	"database/sql"
	"errors"
	"face-analysis/internal/pkg/model/scan_model"
	"face-analysis/internal/pkg/repo/scan_repo"
	"face-analysis/tools"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func Test_ScanRepo_CreateScan(t *testing.T) {

	tests := []struct {
		name       string
		beforeTest func(sqlmock.Sqlmock)
		want       int
		wantErr    bool
	}{
		{
			name: "fail create scan",
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(`
						INSERT INTO scan
							(
							scan_status,
							images_total,
							faces_total,
							avg_health,
							avg_age,
							dominant_skin_type
							)
						VALUES ('new', 0, 0, 0, 0, '')
						RETURNING id`,
					)).WithoutArgs().
					WillReturnError(errors.New("whoops, error"))
			},
			wantErr: true,
		},
		{
			name: "success create scan",
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(`
						INSERT INTO scan
							(
							scan_status,
							images_total,
							faces_total,
							avg_health,
							avg_age,
							dominant_skin_type
							)
						VALUES ('new', 0, 0, 0, 0, '')
						RETURNING id`,
					)).WithoutArgs().
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mockSQL, _ := sqlmock.New()
			defer mockDB.Close()

			db := sqlx.NewDb(mockDB, "sqlmock")

			r := scan_repo.New(db)

			if tt.beforeTest != nil {
				tt.beforeTest(mockSQL)
			}

			got, err := r.CreateScan()

			if (err != nil) != tt.wantErr {
				t.Errorf("scanRepo.CreateScan() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("scanRepo.CreateScan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_ScanRepo_GetScanById(t *testing.T) {

	type args struct {
		scanId int
	}

	tests := []struct {
		name          string
		args          args
		beforeTest    func(sqlmock.Sqlmock)
		want          *scan_model.Scan
		wantErr       bool
		wantErrorType error
	}{
		{
			name: "fail retrieve scan: scan not found",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(
						`SELECT
							id,
							scan_status,
							images_total,
							faces_total,
							avg_health,
							avg_age,
							dominant_skin_type
						FROM scan
						WHERE id=$1`,
					)).WithArgs(1).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr:       true,
			wantErrorType: tools.ErrNotFound,
		},

		{
			name: "fail retrieve scan",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(
						`SELECT
							id,
							scan_status,
							images_total,
							faces_total,
							avg_health,
							avg_age,
							dominant_skin_type
						FROM scan
						WHERE id=$1`,
					)).WithArgs(1).
					WillReturnError(errors.New("db error"))
			},
			wantErr: true,
		},

		{
			name: "success retrieve scan",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(
						`SELECT
							id,
							scan_status,
							images_total,
							faces_total,
							avg_health,
							avg_age,
							dominant_skin_type
						FROM scan
						WHERE id=$1`,
					)).WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "scan_status", "images_total", "faces_total", "avg_health", "avg_age", "dominant_skin_type"}).
						AddRow(1, "completed", 2, 2, 71.5, 33.0, "normal"))
			},
			want: &scan_model.Scan{
				Id:     1,
				Status: "completed",
				Summary: scan_model.Summary{
					ImagesTotal:      2,
					FacesTotal:       2,
					AvgHealth:        71.5,
					AvgAge:           33.0,
					DominantSkinType: "normal",
				},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mockSQL, _ := sqlmock.New()
			defer mockDB.Close()

			db := sqlx.NewDb(mockDB, "sqlmock")

			r := scan_repo.New(db)

			if tt.beforeTest != nil {
				tt.beforeTest(mockSQL)
			}

			got, err := r.GetScanById(tt.args.scanId)

			if (err != nil) != tt.wantErr {
				t.Errorf("scanRepo.GetScanById() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErrorType != nil && !errors.Is(err, tt.wantErrorType) {
				t.Errorf("expected error type %v, got %v", tt.wantErrorType, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("scanRepo.GetScanById() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_ScanRepo_GetScanImages(t *testing.T) {

	type args struct {
		scanId int
	}

	tests := []struct {
		name       string
		args       args
		beforeTest func(sqlmock.Sqlmock)
		want       []*scan_model.ScanImage
		wantErr    bool
	}{
		{
			name: "fail retrieve images",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(
						`SELECT
							id,
							scan_id,
							image_name,
							done
						FROM scan_image
						WHERE scan_id=$1`,
					)).WithArgs(1).
					WillReturnError(errors.New("db error"))
			},
			wantErr: true,
		},

		{
			name: "success retrieving scan images",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(
						`SELECT
							id,
							scan_id,
							image_name,
							done
						FROM scan_image
						WHERE scan_id=$1`,
					)).WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "scan_id", "image_name", "done"}).
						AddRow(3, 1, "front.jpg", true).
						AddRow(4, 1, "side.jpg", false))
			},
			want: []*scan_model.ScanImage{
				{Id: 3, ScanId: 1, ImageName: "front.jpg", DoneFlag: true},
				{Id: 4, ScanId: 1, ImageName: "side.jpg", DoneFlag: false},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mockSQL, _ := sqlmock.New()
			defer mockDB.Close()

			db := sqlx.NewDb(mockDB, "sqlmock")

			r := scan_repo.New(db)

			if tt.beforeTest != nil {
				tt.beforeTest(mockSQL)
			}

			got, err := r.GetScanImages(tt.args.scanId)

			if (err != nil) != tt.wantErr {
				t.Errorf("scanRepo.GetScanImages() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("scanRepo.GetScanImages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_ScanRepo_GetAnalysesByImageIds(t *testing.T) {

	type args struct {
		imageIds []int
	}

	tests := []struct {
		name       string
		args       args
		beforeTest func(sqlmock.Sqlmock)
		want       map[int][]*scan_model.Analysis
		wantErr    bool
	}{
		{
			name: "fail retrieve analyses",
			args: args{imageIds: []int{3}},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(
						`SELECT
							id,
							image_id,
							has_face,
							confidence,
							overall_health,
							estimated_age,
							skin_type,
							dominant_emotion,
							face_shape
						FROM analysis
						WHERE image_id IN ($1)`,
					)).WithArgs(3).
					WillReturnError(errors.New("db error"))
			},
			wantErr: true,
		},

		{
			name: "success retrieve analyses keyed by image",
			args: args{imageIds: []int{3, 4}},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectQuery(regexp.QuoteMeta(
						`SELECT
							id,
							image_id,
							has_face,
							confidence,
							overall_health,
							estimated_age,
							skin_type,
							dominant_emotion,
							face_shape
						FROM analysis
						WHERE image_id IN ($1, $2)`,
					)).WithArgs(3, 4).
					WillReturnRows(sqlmock.NewRows([]string{"id", "image_id", "has_face", "confidence", "overall_health", "estimated_age", "skin_type", "dominant_emotion", "face_shape"}).
						AddRow(10, 3, true, 0.9, 72.0, 31.0, "normal", "neutral", "Oval").
						AddRow(11, 4, false, 0.0, 0.0, 0.0, "", "", ""))
			},
			want: map[int][]*scan_model.Analysis{
				3: {{Id: 10, ImageId: 3, HasFace: true, Confidence: 0.9, OverallHealth: 72.0, EstimatedAge: 31.0, SkinType: "normal", DominantEmotion: "neutral", FaceShape: "Oval"}},
				4: {{Id: 11, ImageId: 4}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mockSQL, _ := sqlmock.New()
			defer mockDB.Close()

			db := sqlx.NewDb(mockDB, "postgres")

			r := scan_repo.New(db)

			if tt.beforeTest != nil {
				tt.beforeTest(mockSQL)
			}

			got, err := r.GetAnalysesByImageIds(tt.args.imageIds)

			if (err != nil) != tt.wantErr {
				t.Errorf("scanRepo.GetAnalysesByImageIds() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.want != nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("scanRepo.GetAnalysesByImageIds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_ScanRepo_DeleteScan(t *testing.T) {

	type args struct {
		scanId int
	}

	tests := []struct {
		name          string
		args          args
		beforeTest    func(sqlmock.Sqlmock)
		wantErr       bool
		wantErrorType error
	}{
		{
			name: "fail delete scan: scan not found",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectExec(regexp.QuoteMeta(`DELETE FROM scan WHERE id=($1)`)).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:       true,
			wantErrorType: tools.ErrNotFound,
		},

		{
			name: "fail delete scan",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectExec(regexp.QuoteMeta(`DELETE FROM scan WHERE id=($1)`)).
					WithArgs(1).
					WillReturnError(errors.New("db error"))
			},
			wantErr: true,
		},

		{
			name: "success delete scan",
			args: args{scanId: 1},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectExec(regexp.QuoteMeta(`DELETE FROM scan WHERE id=($1)`)).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mockSQL, _ := sqlmock.New()
			defer mockDB.Close()

			db := sqlx.NewDb(mockDB, "sqlmock")

			r := scan_repo.New(db)

			if tt.beforeTest != nil {
				tt.beforeTest(mockSQL)
			}

			err := r.DeleteScan(tt.args.scanId)

			if (err != nil) != tt.wantErr {
				t.Errorf("scanRepo.DeleteScan() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErrorType != nil && !errors.Is(err, tt.wantErrorType) {
				t.Errorf("expected error type %v, got %v", tt.wantErrorType, err)
			}
		})
	}
}

func Test_ScanRepo_UpdateScanStatus(t *testing.T) {

	type args struct {
		scanId int
		status string
	}

	tests := []struct {
		name          string
		args          args
		beforeTest    func(sqlmock.Sqlmock)
		wantErr       bool
		wantErrorType error
	}{
		{
			name: "fail update status: scan not found",
			args: args{scanId: 1, status: "in_progress"},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectExec(regexp.QuoteMeta(
						`UPDATE scan
							SET scan_status=$1
							WHERE id=$2`,
					)).WithArgs("in_progress", 1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:       true,
			wantErrorType: tools.ErrNotFound,
		},

		{
			name: "success update status",
			args: args{scanId: 1, status: "completed"},
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.
					ExpectExec(regexp.QuoteMeta(
						`UPDATE scan
							SET scan_status=$1
							WHERE id=$2`,
					)).WithArgs("completed", 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mockSQL, _ := sqlmock.New()
			defer mockDB.Close()

			db := sqlx.NewDb(mockDB, "sqlmock")

			r := scan_repo.New(db)

			if tt.beforeTest != nil {
				tt.beforeTest(mockSQL)
			}

			err := r.UpdateScanStatus(tt.args.scanId, tt.args.status)

			if (err != nil) != tt.wantErr {
				t.Errorf("scanRepo.UpdateScanStatus() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErrorType != nil && !errors.Is(err, tt.wantErrorType) {
				t.Errorf("expected error type %v, got %v", tt.wantErrorType, err)
			}
		})
	}
}
