package review_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/review"
)

func TestReview(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Review suite")
}

func recommendations() []api.Recommendation {
	return []api.Recommendation{
		{ReferralId: 41, EmployeeFullName: "Ada Lovelace", Status: api.ReferralStatusPending},
		{ReferralId: 42, EmployeeFullName: "Grace Hopper", Status: api.ReferralStatusPending},
		{ReferralId: 43, EmployeeFullName: "Alan Turing", Status: api.ReferralStatusReserved},
	}
}

func newController(outcomes chan review.Outcome) *review.Controller[api.Recommendation] {
	controller := review.NewController(
		func(rec api.Recommendation) int64 { return rec.ReferralId },
		func(outcome review.Outcome) { outcomes <- outcome },
	)
	controller.Replace(recommendations())
	return controller
}

func removeAction(name string, commit func(ctx context.Context, itemID int64) error) review.Action[api.Recommendation] {
	return review.Action[api.Recommendation]{
		Kind:   review.ActionRemove,
		Name:   name,
		Commit: commit,
	}
}

func reserveAction(commit func(ctx context.Context, itemID int64) error) review.Action[api.Recommendation] {
	return review.Action[api.Recommendation]{
		Kind: review.ActionUpdateStatus,
		Name: "reserve",
		Mutate: func(rec api.Recommendation) api.Recommendation {
			rec.Status = api.ReferralStatusReserved
			return rec
		},
		Commit: commit,
	}
}

var _ = Describe("optimistic list controller", func() {
	var outcomes chan review.Outcome
	var controller *review.Controller[api.Recommendation]

	BeforeEach(func() {
		outcomes = make(chan review.Outcome, 16)
		controller = newController(outcomes)
	})

	Context("remove actions", func() {
		It("removes the item before the commit resolves", func() {
			release := make(chan error)
			err := controller.PerformAction(context.Background(), 42, removeAction("select", func(ctx context.Context, itemID int64) error {
				return <-release
			}))
			Expect(err).To(BeNil())

			// Commit still pending, item already gone.
			ids := itemIds(controller.Items())
			Expect(ids).To(Equal([]int64{41, 43}))

			release <- nil
			controller.Wait()
			Expect(itemIds(controller.Items())).To(Equal([]int64{41, 43}))

			outcome := <-outcomes
			Expect(outcome.RolledBack).To(BeFalse())
			Expect(outcome.Action).To(Equal("select"))
		})

		It("restores the exact original list on failure", func() {
			err := controller.PerformAction(context.Background(), 42, removeAction("select", func(ctx context.Context, itemID int64) error {
				return fmt.Errorf("server error: 500")
			}))
			Expect(err).To(BeNil())

			controller.Wait()
			outcome := <-outcomes
			Expect(outcome.RolledBack).To(BeTrue())
			Expect(outcome.ItemID).To(Equal(int64(42)))

			// Same items, same order, same status.
			Expect(controller.Items()).To(Equal(recommendations()))
		})

		It("keeps confirmed removals of other items when one commit fails", func() {
			release := make(chan error)
			err := controller.PerformAction(context.Background(), 41, removeAction("select", func(ctx context.Context, itemID int64) error {
				return <-release
			}))
			Expect(err).To(BeNil())

			// While 41 is still in flight, the removal of 42 is confirmed.
			err = controller.PerformAction(context.Background(), 42, removeAction("select", func(ctx context.Context, itemID int64) error {
				return nil
			}))
			Expect(err).To(BeNil())
			Eventually(outcomes, time.Second).Should(Receive())

			release <- fmt.Errorf("server error: 500")
			controller.Wait()
			Expect((<-outcomes).RolledBack).To(BeTrue())

			// 41 is back in its old position; 42 stays gone, the server
			// already accepted its removal.
			Expect(itemIds(controller.Items())).To(Equal([]int64{41, 43}))
			Expect(controller.Items()[0].Status).To(Equal(api.ReferralStatusPending))
		})
	})

	Context("update-status actions", func() {
		It("touches only the targeted item", func() {
			release := make(chan error)
			err := controller.PerformAction(context.Background(), 42, reserveAction(func(ctx context.Context, itemID int64) error {
				return <-release
			}))
			Expect(err).To(BeNil())

			items := controller.Items()
			Expect(items[0].Status).To(Equal(api.ReferralStatusPending))
			Expect(items[1].Status).To(Equal(api.ReferralStatusReserved))
			Expect(items[2].Status).To(Equal(api.ReferralStatusReserved))

			release <- nil
			controller.Wait()
		})

		It("reverts the status on failure and leaves the rest untouched", func() {
			err := controller.PerformAction(context.Background(), 42, reserveAction(func(ctx context.Context, itemID int64) error {
				return fmt.Errorf("server error: 500")
			}))
			Expect(err).To(BeNil())

			controller.Wait()
			Expect((<-outcomes).RolledBack).To(BeTrue())
			Expect(controller.Items()).To(Equal(recommendations()))
		})
	})

	Context("per-item serialization", func() {
		It("refuses a second action on an item with a pending commit", func() {
			release := make(chan error)
			err := controller.PerformAction(context.Background(), 43, reserveAction(func(ctx context.Context, itemID int64) error {
				return <-release
			}))
			Expect(err).To(BeNil())

			err = controller.PerformAction(context.Background(), 43, removeAction("reject", nil))
			Expect(err).To(MatchError(review.ErrActionPending))

			// A different item is not blocked.
			err = controller.PerformAction(context.Background(), 41, removeAction("reject", func(ctx context.Context, itemID int64) error {
				return nil
			}))
			Expect(err).To(BeNil())

			release <- nil
			controller.Wait()
		})

		It("rejects actions on unknown items", func() {
			err := controller.PerformAction(context.Background(), 99, removeAction("select", nil))
			Expect(err).To(MatchError(review.ErrItemNotFound))
		})
	})

	Context("background replacement", func() {
		It("skips the swap while an action is in flight", func() {
			release := make(chan error)
			err := controller.PerformAction(context.Background(), 42, removeAction("select", func(ctx context.Context, itemID int64) error {
				return <-release
			}))
			Expect(err).To(BeNil())

			Expect(controller.ReplaceIfIdle([]api.Recommendation{})).To(BeFalse())
			Expect(itemIds(controller.Items())).To(Equal([]int64{41, 43}))

			release <- nil
			controller.Wait()
			Expect(controller.ReplaceIfIdle([]api.Recommendation{})).To(BeTrue())
			Expect(controller.Items()).To(BeEmpty())
		})
	})

	Context("manager review scenario", func() {
		It("removes referral 42 instantly and restores it in place after a 500", func() {
			release := make(chan error)
			err := controller.PerformAction(context.Background(), 42, removeAction("select", func(ctx context.Context, itemID int64) error {
				return <-release
			}))
			Expect(err).To(BeNil())
			Expect(itemIds(controller.Items())).To(Equal([]int64{41, 43}))

			release <- fmt.Errorf("server error: 500")
			Eventually(outcomes, time.Second).Should(Receive())
			controller.Wait()

			items := controller.Items()
			Expect(itemIds(items)).To(Equal([]int64{41, 42, 43}))
			Expect(items[1].Status).To(Equal(api.ReferralStatusPending))
		})
	})
})

func itemIds(items []api.Recommendation) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ReferralId)
	}
	return ids
}
