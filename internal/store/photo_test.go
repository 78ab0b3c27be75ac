package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

var _ = Describe("photo store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		Expect(gormdb.Exec("DELETE FROM photos;").Error).To(BeNil())
	})

	Context("create and list", func() {
		It("stores a photo and finds it by job", func() {
			photo := model.Photo{
				ID:               uuid.New(),
				JobID:            "job-001",
				ContractorID:     "contractor-1",
				OriginalFilename: "roof.jpg",
				ObjectKey:        "job-001/roof.jpg",
				Status:           model.PhotoStatusPending,
			}
			created, err := s.Photo().Create(context.TODO(), photo)
			Expect(err).To(BeNil())
			Expect(created.ID).To(Equal(photo.ID))

			photos, err := s.Photo().List(context.TODO(), store.NewPhotoQueryFilter().WithJobID("job-001"))
			Expect(err).To(BeNil())
			Expect(photos).To(HaveLen(1))

			photos, err = s.Photo().List(context.TODO(), store.NewPhotoQueryFilter().WithJobID("job-002"))
			Expect(err).To(BeNil())
			Expect(photos).To(BeEmpty())
		})

		It("excludes completed photos from the pending filter", func() {
			pendingPhoto := model.Photo{ID: uuid.New(), JobID: "job-001", ObjectKey: "a", Status: model.PhotoStatusPending}
			completedPhoto := model.Photo{ID: uuid.New(), JobID: "job-001", ObjectKey: "b", Status: model.PhotoStatusCompleted}
			_, err := s.Photo().Create(context.TODO(), pendingPhoto)
			Expect(err).To(BeNil())
			_, err = s.Photo().Create(context.TODO(), completedPhoto)
			Expect(err).To(BeNil())

			photos, err := s.Photo().List(context.TODO(), store.NewPhotoQueryFilter().WithPending())
			Expect(err).To(BeNil())
			Expect(photos).To(HaveLen(1))
			Expect(photos[0].ID).To(Equal(pendingPhoto.ID))
		})
	})

	Context("mark completed", func() {
		It("flips a pending photo exactly once", func() {
			photo := model.Photo{ID: uuid.New(), JobID: "job-001", ObjectKey: "a", Status: model.PhotoStatusPending}
			_, err := s.Photo().Create(context.TODO(), photo)
			Expect(err).To(BeNil())

			assessmentID := uuid.New()
			Expect(s.Photo().MarkCompleted(context.TODO(), photo.ID, assessmentID)).To(Succeed())

			stored, err := s.Photo().Get(context.TODO(), photo.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.PhotoStatusCompleted))
			Expect(stored.AssessmentID).ToNot(BeNil())
			Expect(*stored.AssessmentID).To(Equal(assessmentID))

			// a second attempt loses the claim
			err = s.Photo().MarkCompleted(context.TODO(), photo.ID, uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("fails for an unknown photo", func() {
			err := s.Photo().MarkCompleted(context.TODO(), uuid.New(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("get", func() {
		It("returns ErrRecordNotFound for a missing photo", func() {
			_, err := s.Photo().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
