package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/entrypass/entrypass/internal/models"
)

// Funds dispatches the funds subcommands: add, list, link, unlink, backup.
func (a *App) Funds(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: funds add | list | link <n> | unlink <n> | backup <n>")
		return nil
	}

	switch args[0] {
	case "add":
		return a.fundsAdd(ctx)
	case "list":
		return a.fundsList(ctx)
	case "link", "unlink", "backup":
		if len(args) < 2 {
			printlnFn("Usage: funds", args[0], "<n>  (n from 'funds list')")
			return nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			printlnFn("Not a list position:", args[1])
			return nil
		}
		item, err := a.fundAt(ctx, n)
		if err != nil {
			printlnFn(err)
			return err
		}
		switch args[0] {
		case "link":
			return a.fundsLink(ctx, item)
		case "unlink":
			return a.fundsUnlink(ctx, item)
		default:
			return a.fundsBackup(ctx, item)
		}
	default:
		printlnFn("Unknown funds subcommand:", args[0])
		return nil
	}
}

func (a *App) fundsAdd(ctx context.Context) error {
	w := os.Stdout

	kind, err := GetSimpleText(a.reader, "Fund type (cash, bank statement, card)", w)
	if err != nil {
		return err
	}
	amount, err := GetFloat(a.reader, "Amount", w)
	if err != nil {
		printlnFn(err)
		return err
	}
	currency, err := GetSimpleText(a.reader, "Currency (e.g. THB)", w)
	if err != nil {
		return err
	}
	photo, err := GetSimpleText(a.reader, "Path to supporting photo (empty to skip)", w)
	if err != nil {
		return err
	}

	f := &models.FundItem{
		UserID:    a.user.ID,
		Type:      kind,
		Amount:    amount,
		Currency:  currency,
		PhotoPath: photo,
	}
	if err := a.records.SaveFund(ctx, f); err != nil {
		printlnFn("Could not save fund item:", err)
		return err
	}

	printlnFn("Fund item saved. Use 'funds link' to attach it to this trip.")
	return nil
}

func (a *App) fundsList(ctx context.Context) error {
	items, err := a.records.ListFunds(ctx, a.user.ID)
	if err != nil {
		printlnFn("Could not list fund items:", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("No fund items yet. Use 'funds add'.")
		return nil
	}
	for i, f := range items {
		backed := ""
		if f.PhotoKey != "" {
			backed = " [backed up]"
		}
		printlnFn(fmt.Sprintf("%d. %s %.2f %s%s", i+1, f.Type, f.Amount, f.Currency, backed))
	}
	return nil
}

// fundAt resolves a 1-based position from 'funds list' to the item.
func (a *App) fundAt(ctx context.Context, n int) (*models.FundItem, error) {
	items, err := a.records.ListFunds(ctx, a.user.ID)
	if err != nil {
		return nil, err
	}
	if n > len(items) {
		return nil, fmt.Errorf("no fund item at position %d", n)
	}
	return &items[n-1], nil
}

func (a *App) fundsLink(ctx context.Context, item *models.FundItem) error {
	if err := a.records.LinkFund(ctx, a.rec.ID, item.ID); err != nil {
		printlnFn("Could not link fund item:", err)
		return err
	}
	printlnFn("Linked to this trip.")
	return nil
}

func (a *App) fundsUnlink(ctx context.Context, item *models.FundItem) error {
	if err := a.records.UnlinkFund(ctx, a.rec.ID, item.ID); err != nil {
		printlnFn("Could not unlink fund item:", err)
		return err
	}
	printlnFn("Unlinked from this trip; the item itself is kept.")
	return nil
}

func (a *App) fundsBackup(ctx context.Context, item *models.FundItem) error {
	if !a.photos.Enabled() {
		printlnFn("Photo backup is not configured (set the S3 environment variables).")
		return nil
	}
	if item.PhotoPath == "" {
		printlnFn("This fund item has no photo to back up.")
		return nil
	}

	key, err := a.photos.Upload(ctx, item.PhotoPath)
	if err != nil {
		a.log.Error(ctx, "photo backup failed", "fund_id", item.ID, "err", err)
		printlnFn("Backup failed:", err)
		return err
	}

	item.PhotoKey = key
	if err := a.records.SaveFund(ctx, item); err != nil {
		printlnFn("Backed up, but could not record the key:", err)
		return err
	}

	printlnFn("Photo backed up.")
	return nil
}
