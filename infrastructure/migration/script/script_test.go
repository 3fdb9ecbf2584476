package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestCopyPeriods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	january := domain.Period{Month: "janeiro", Year: 2024}
	february := domain.Period{Month: "fevereiro", Year: 2024}
	march := domain.Period{Month: "março", Year: 2024}

	source := mocks.NewMockPeriodStore(ctrl)
	target := mocks.NewMockPeriodStore(ctrl)

	source.EXPECT().ListKeys().Return([]domain.Period{january, february, march}, nil)
	source.EXPECT().Get(january).Return(domain.NewPeriodDataset(january, nil), nil)
	source.EXPECT().Get(february).Return(nil, domain.ErrStoreFailure)
	source.EXPECT().Get(march).Return(domain.NewPeriodDataset(march, nil), nil)

	target.EXPECT().Put(january, gomock.Any()).Return(nil)
	target.EXPECT().Put(march, gomock.Any()).Return(domain.ErrStoreFailure)

	copied, failed, err := copyPeriods(source, target, false)
	require.NoError(t, err)
	assert.Equal(t, 1, copied)
	assert.Equal(t, 2, failed)
}

func TestCopyPeriods_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	january := domain.Period{Month: "janeiro", Year: 2024}

	source := mocks.NewMockPeriodStore(ctrl)
	target := mocks.NewMockPeriodStore(ctrl)

	source.EXPECT().ListKeys().Return([]domain.Period{january}, nil)
	source.EXPECT().Get(january).Return(domain.NewPeriodDataset(january, nil), nil)

	copied, failed, err := copyPeriods(source, target, true)
	require.NoError(t, err)
	assert.Zero(t, copied)
	assert.Zero(t, failed)
}
