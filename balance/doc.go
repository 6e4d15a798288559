/*
Package balance implements the ledger other content modules move assets with.

The ledger keeps account balances, total supply and the spending budgets
listed in balanceconst. Account balance is either zero or not lower than the
existential deposit set on genesis: credits producing smaller balances fail,
debits leaving dust remove the account and take the dust out of circulation,
unless the caller asks to keep the account alive, in which case such debits
fail.

Budgets are not accounts. Assets enter circulation from a budget by
MintFromBudget and return to it by BurnToBudget.

Module notifications

Transfer notification. This is NEP-17 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

TransferX notification. This is enhanced transfer notification with details.

	TransferX:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: details
	    type: ByteArray

Mint notification. This notification is produced when assets are created on
the account.

	Mint:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Burn notification. This notification is produced when assets are removed from
the account.

	Burn:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

BudgetUpdated notification. This notification is produced on any budget
change and carries the new budget amount.

	BudgetUpdated:
	  - name: budget
	    type: Integer
	  - name: amount
	    type: Integer

Module storage model

	0x01 'a' <account>  serialized Account
	0x01 'b' <budget>   budget amount, big-endian
	0x01 'e'            existential deposit, big-endian
	0x01 't'            total supply, big-endian
*/
package balance
